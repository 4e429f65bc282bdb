package communication

import "fmt"

// ValidationError rejects an action before any state is touched
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError means the document store rejected or never received a write.
// It is the only error kind that triggers a rollback of an optimistic change.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// CalendarError means a calendar call failed. Calendar sync is best-effort,
// so this kind is logged and never rolls anything back.
type CalendarError struct {
	Operation string
	Err       error
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar call failed during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *CalendarError) Unwrap() error {
	return e.Err
}

// ParseError means a model reply fragment did not parse. Silent, logged only.
type ParseError struct {
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse fragment %q: %v", e.Fragment, e.Err)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}
