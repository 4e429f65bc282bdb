package tasks

import (
	"time"
)

// Analytics is the productivity summary of a user's task list
type Analytics struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	CompletionRate float64        `json:"completionRate"`
	ByCategory     map[string]int `json:"byCategory"`
	Streak         int            `json:"streak"`
}

// ComputeAnalytics summarizes a task list. The streak counts consecutive
// days with at least one completion, ending today or yesterday, so a streak
// survives until a full day passes without any completed task.
func ComputeAnalytics(tasks []Task, now time.Time) *Analytics {
	analytics := Analytics{ByCategory: make(map[string]int)}

	completionDays := make(map[string]bool)

	for _, task := range tasks {
		analytics.Total++
		analytics.ByCategory[task.Category]++

		if task.Completed {
			analytics.Completed++
			if !task.CompletedAt.IsZero() {
				completionDays[task.CompletedAt.In(now.Location()).Format("2006-01-02")] = true
			}
		} else {
			analytics.Pending++
		}
	}

	if analytics.Total > 0 {
		analytics.CompletionRate = float64(analytics.Completed) / float64(analytics.Total)
	}

	analytics.Streak = streak(completionDays, now)

	return &analytics
}

func streak(completionDays map[string]bool, now time.Time) int {
	day := now
	if !completionDays[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for completionDays[day.Format("2006-01-02")] {
		count++
		day = day.AddDate(0, 0, -1)
	}

	return count
}
