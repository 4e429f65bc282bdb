package tasks

import (
	"strings"
)

// Completion filter values
const (
	CompletionAll       = "all"
	CompletionPending   = "pending"
	CompletionCompleted = "completed"
)

// Query is the model for the rest api task filter
type Query struct {
	Search     string
	Completion string
}

// Matches tells whether a task passes the query
func (q *Query) Matches(task *Task) bool {
	switch q.Completion {
	case CompletionPending:
		if task.Completed {
			return false
		}
	case CompletionCompleted:
		if !task.Completed {
			return false
		}
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(task.Time, q.Search) {
			return false
		}
	}

	return true
}

// ApplyQuery filters an already ordered task list
func ApplyQuery(tasks []Task, query *Query) []Task {
	if query == nil {
		return tasks
	}

	filtered := make([]Task, 0, len(tasks))
	for i := range tasks {
		if query.Matches(&tasks[i]) {
			filtered = append(filtered, tasks[i])
		}
	}

	return filtered
}
