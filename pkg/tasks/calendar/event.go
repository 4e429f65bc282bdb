package calendar

import "github.com/dailygrind-app/dailygrind-backend/pkg/date"

// Event represents a simple calendar event derived from a task. EventID is
// empty until the remote calendar has confirmed the event at least once.
type Event struct {
	EventID string        `json:"eventId"`
	Title   string        `json:"title"`
	Date    date.Timespan `json:"date"`
}
