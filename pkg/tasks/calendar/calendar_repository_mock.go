package calendar

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// MockCalendarRepository is a calendar repository for testing. Deletes fan
// out concurrently, so every method takes the lock.
type MockCalendarRepository struct {
	Events map[string]*Event

	UpsertCalls  int
	DeletedIDs   []string
	FailUpserts  bool
	FailDeletes  bool
	nextEventNum int
	mu           sync.Mutex
}

// NewMockCalendarRepository builds a new MockCalendarRepository
func NewMockCalendarRepository() *MockCalendarRepository {
	return &MockCalendarRepository{
		Events: map[string]*Event{},
	}
}

// UpsertEvent creates or replaces an event
func (r *MockCalendarRepository) UpsertEvent(event *Event) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UpsertCalls++

	if r.FailUpserts {
		return "", errors.New("mock calendar is unreachable")
	}

	eventID := event.EventID
	if eventID == "" {
		r.nextEventNum++
		eventID = fmt.Sprintf("evt-%d", r.nextEventNum)
	}

	stored := *event
	stored.EventID = eventID
	r.Events[eventID] = &stored

	return eventID, nil
}

// DeleteEvent deletes an Event, absent events count as deleted
func (r *MockCalendarRepository) DeleteEvent(eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.DeletedIDs = append(r.DeletedIDs, eventID)

	if r.FailDeletes {
		return errors.New("mock calendar is unreachable")
	}

	delete(r.Events, eventID)
	return nil
}
