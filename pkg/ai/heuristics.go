package ai

import (
	"regexp"
	"strings"

	"github.com/dailygrind-app/dailygrind-backend/pkg/date"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
)

var clockPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

var categoryKeywords = map[string][]string{
	tasks.CategoryFitness:  {"gym", "workout", "run", "jog", "exercise", "swim", "cycling", "yoga class"},
	tasks.CategoryStudy:    {"study", "read", "learn", "class", "exam", "homework", "lecture", "revise"},
	tasks.CategoryWork:     {"meeting", "work", "email", "project", "report", "call", "presentation", "deadline", "standup"},
	tasks.CategoryWellness: {"meditat", "yoga", "journal", "sleep", "relax", "breathe", "therapy"},
}

var categoryIcons = map[string]string{
	tasks.CategoryPersonal: "📝",
	tasks.CategoryStudy:    "📖",
	tasks.CategoryWork:     "💼",
	tasks.CategoryFitness:  "💪",
	tasks.CategoryWellness: "🧘",
}

var timeWords = []struct {
	word  string
	clock string
}{
	{"morning", "08:00"},
	{"noon", "12:00"},
	{"lunch", "12:30"},
	{"afternoon", "15:00"},
	{"evening", "19:00"},
	{"night", "21:00"},
}

// GuessCategory guesses a task category from its wording
func GuessCategory(text string) string {
	lowered := strings.ToLower(text)

	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}

	return tasks.CategoryPersonal
}

// GuessPriority guesses a task priority from its wording
func GuessPriority(text string) string {
	lowered := strings.ToLower(text)

	for _, keyword := range []string{"urgent", "asap", "important", "deadline", "due", "must"} {
		if strings.Contains(lowered, keyword) {
			return tasks.PriorityHigh
		}
	}

	for _, keyword := range []string{"later", "sometime", "someday", "maybe", "eventually"} {
		if strings.Contains(lowered, keyword) {
			return tasks.PriorityLow
		}
	}

	return tasks.PriorityMedium
}

// GuessIcon picks the icon belonging to a category
func GuessIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}

	return categoryIcons[tasks.CategoryPersonal]
}

// GuessTime finds an explicit clock time or a time of day word in the text.
// Returns an empty string when the text gives no hint.
func GuessTime(text string) string {
	match := clockPattern.FindStringSubmatch(text)
	if match != nil {
		clock := match[0]
		if len(match[1]) == 1 {
			clock = "0" + clock
		}
		if date.IsValidClock(clock) {
			return clock
		}
	}

	lowered := strings.ToLower(text)
	for _, entry := range timeWords {
		if strings.Contains(lowered, entry.word) {
			return entry.clock
		}
	}

	return ""
}

// CompleteDraft fills a draft's blanks from its title
func CompleteDraft(draft *TaskDraft) {
	if draft.Category == "" {
		draft.Category = GuessCategory(draft.Title)
	}
	if draft.Priority == "" {
		draft.Priority = GuessPriority(draft.Title)
	}
	if draft.Icon == "" {
		draft.Icon = GuessIcon(draft.Category)
	}
	if draft.Time == "" {
		draft.Time = GuessTime(draft.Title)
	}
	if draft.Duration == "" {
		draft.Duration = "30 min"
	}
}
