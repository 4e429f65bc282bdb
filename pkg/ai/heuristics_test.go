package ai

import (
	"testing"

	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
)

func TestGuessCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Morning run in the park", tasks.CategoryFitness},
		{"Study for the math exam", tasks.CategoryStudy},
		{"Team meeting about the project", tasks.CategoryWork},
		{"Meditate for ten minutes", tasks.CategoryWellness},
		{"Buy groceries", tasks.CategoryPersonal},
	}

	for _, test := range tests {
		if got := GuessCategory(test.text); got != test.want {
			t.Errorf("GuessCategory(%q) = %q, want %q", test.text, got, test.want)
		}
	}
}

func TestGuessPriority(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Send the report ASAP", tasks.PriorityHigh},
		{"Urgent: call the landlord", tasks.PriorityHigh},
		{"Maybe clean the garage sometime", tasks.PriorityLow},
		{"Water the plants", tasks.PriorityMedium},
	}

	for _, test := range tests {
		if got := GuessPriority(test.text); got != test.want {
			t.Errorf("GuessPriority(%q) = %q, want %q", test.text, got, test.want)
		}
	}
}

func TestGuessTime(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Dentist at 14:30", "14:30"},
		{"Call mom at 9:15", "09:15"},
		{"Go for a run in the morning", "08:00"},
		{"Read before night", "21:00"},
		{"Buy groceries", ""},
		{"The score was 99:99", ""},
	}

	for _, test := range tests {
		if got := GuessTime(test.text); got != test.want {
			t.Errorf("GuessTime(%q) = %q, want %q", test.text, got, test.want)
		}
	}
}

func TestCompleteDraft(t *testing.T) {
	draft := TaskDraft{Title: "Morning run"}
	CompleteDraft(&draft)

	if draft.Category != tasks.CategoryFitness {
		t.Errorf("expected fitness, got %q", draft.Category)
	}
	if draft.Icon != "💪" {
		t.Errorf("expected the fitness icon, got %q", draft.Icon)
	}
	if draft.Time != "08:00" {
		t.Errorf("expected 08:00, got %q", draft.Time)
	}
	if draft.Duration != "30 min" {
		t.Errorf("expected the default duration, got %q", draft.Duration)
	}
}

func TestCompleteDraft_KeepsExplicitValues(t *testing.T) {
	draft := TaskDraft{Title: "Morning run", Category: tasks.CategoryWellness, Time: "06:00", Duration: "1 hour", Icon: "🏃"}
	CompleteDraft(&draft)

	if draft.Category != tasks.CategoryWellness || draft.Time != "06:00" || draft.Duration != "1 hour" || draft.Icon != "🏃" {
		t.Errorf("explicit fields must win over guesses: %+v", draft)
	}
}
