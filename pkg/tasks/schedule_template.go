package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// templateTask is one line of a default schedule
type templateTask struct {
	Title    string
	Time     string
	Duration string
	Category string
	Priority string
	Icon     string
}

// Monday, Wednesday and Friday carry the workout heavy schedule, the
// remaining days the study heavy one.
var workoutDayTemplate = []templateTask{
	{Title: "Morning Workout", Time: "07:00", Duration: "45 min", Category: CategoryFitness, Priority: PriorityHigh, Icon: "💪"},
	{Title: "Deep Work Block", Time: "09:00", Duration: "2 hours", Category: CategoryWork, Priority: PriorityHigh, Icon: "💼"},
	{Title: "Evening Reading", Time: "21:00", Duration: "30 min", Category: CategoryPersonal, Priority: PriorityLow, Icon: "📚"},
}

var studyDayTemplate = []templateTask{
	{Title: "Morning Meditation", Time: "07:00", Duration: "15 min", Category: CategoryWellness, Priority: PriorityMedium, Icon: "🧘"},
	{Title: "Study Session", Time: "18:00", Duration: "1 hour", Category: CategoryStudy, Priority: PriorityHigh, Icon: "📖"},
	{Title: "Plan Tomorrow", Time: "21:30", Duration: "15 min", Category: CategoryPersonal, Priority: PriorityMedium, Icon: "📝"},
}

// DefaultScheduleTasks builds the starter tasks a brand new user gets,
// picked by the weekday of the given day
func DefaultScheduleTasks(userID primitive.ObjectID, day time.Time) []*Task {
	template := studyDayTemplate
	switch day.Weekday() {
	case time.Monday, time.Wednesday, time.Friday:
		template = workoutDayTemplate
	}

	tasks := make([]*Task, 0, len(template))
	for _, line := range template {
		tasks = append(tasks, &Task{
			ID:       NewTaskID(),
			UserID:   userID,
			Title:    line.Title,
			Time:     line.Time,
			Duration: line.Duration,
			Category: line.Category,
			Priority: line.Priority,
			Icon:     line.Icon,
		})
	}

	return tasks
}
