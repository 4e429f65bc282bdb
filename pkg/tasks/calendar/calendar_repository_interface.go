package calendar

// RepositoryInterface is an interface for every calendar implementation e.g. Google Calendar, Microsoft Calendar,...
//
// UpsertEvent creates the remote event when the Event carries no EventID and
// updates it otherwise; either way it returns the identifier the remote
// calendar knows the event by. DeleteEvent treats an already absent event as
// success.
type RepositoryInterface interface {
	UpsertEvent(event *Event) (string, error)
	DeleteEvent(eventID string) error
}
