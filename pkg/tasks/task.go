package tasks

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/date"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks/calendar"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task categories
const (
	CategoryPersonal = "personal"
	CategoryStudy    = "study"
	CategoryWork     = "work"
	CategoryFitness  = "fitness"
	CategoryWellness = "wellness"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is the model for a task. The ID is client-generated and time-based,
// GoogleEventID only ever originates from a calendar confirmation, and
// Syncing is transient state that never reaches the database.
type Task struct {
	ID             string             `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Title          string             `json:"title" bson:"title" validate:"required"`
	Time           string             `json:"time" bson:"time"`
	Duration       string             `json:"duration" bson:"duration"`
	Category       string             `json:"category" bson:"category" validate:"omitempty,oneof=personal study work fitness wellness"`
	Priority       string             `json:"priority" bson:"priority" validate:"omitempty,oneof=low medium high"`
	Icon           string             `json:"icon" bson:"icon"`
	Completed      bool               `json:"completed" bson:"completed"`
	CompletedAt    time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	GoogleEventID  string             `json:"googleEventId,omitempty" bson:"googleEventId,omitempty"`
	Syncing        bool               `json:"syncing,omitempty" bson:"-"`
}

// TaskUpdate is the view of a task for an edit. Completed deliberately has
// no place here, only the toggle operation touches it.
type TaskUpdate struct {
	Title    string `json:"title" bson:"title" validate:"required"`
	Time     string `json:"time" bson:"time"`
	Duration string `json:"duration" bson:"duration"`
	Category string `json:"category" bson:"category" validate:"omitempty,oneof=personal study work fitness wellness"`
	Priority string `json:"priority" bson:"priority" validate:"omitempty,oneof=low medium high"`
	Icon     string `json:"icon" bson:"icon"`
}

var taskIDSequence uint64

// NewTaskID generates a fresh time-based task identifier. The sequence
// suffix keeps identifiers unique even when a batch of tasks is created
// within one clock tick.
func NewTaskID() string {
	sequence := atomic.AddUint64(&taskIDSequence, 1)

	return strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatUint(sequence, 10)
}

// CalendarEvent derives the calendar event for a task scheduled on the given
// day in the application time zone
func (t *Task) CalendarEvent(day time.Time, location *time.Location) *calendar.Event {
	return &calendar.Event{
		EventID: t.GoogleEventID,
		Title:   t.Title,
		Date:    date.EventWindow(day, t.Time, t.Duration, location),
	}
}

// Apply merges an edit into a task
func (t *Task) Apply(update *TaskUpdate) {
	t.Title = update.Title
	t.Time = update.Time
	t.Duration = update.Duration
	t.Category = update.Category
	t.Priority = update.Priority
	t.Icon = update.Icon
}
