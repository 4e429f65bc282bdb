package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/locking"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks/calendar"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type syncServiceFixture struct {
	service        *SyncService
	taskRepository *MockTaskRepository
	calendarMock   *calendar.MockCalendarRepository
	user           *users.User
}

func newSyncServiceFixture(t *testing.T) *syncServiceFixture {
	t.Helper()

	user := &users.User{ID: primitive.NewObjectID()}
	user.GoogleCalendarConnection.IsActive = true

	taskRepository := &MockTaskRepository{}
	// one persisted task keeps the default schedule seeding out of the way
	taskRepository.Tasks = append(taskRepository.Tasks, &Task{
		ID: "existing", UserID: user.ID, Title: "Water the plants", Time: "08:00",
	})

	calendarMock := calendar.NewMockCalendarRepository()

	userRepository := users.MockUserRepository{}
	manager, err := NewCalendarRepositoryManager(nil, &userRepository, nil, logger.Logger{})
	if err != nil {
		t.Fatal(err)
	}
	manager.Override(user.ID.Hex(), calendarMock)

	service := NewSyncService(taskRepository, manager, locking.NewLockerMemory(), logger.Logger{}, time.UTC)

	return &syncServiceFixture{
		service:        service,
		taskRepository: taskRepository,
		calendarMock:   calendarMock,
		user:           user,
	}
}

func TestSyncService_CreateSyncsToCalendar(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries", Time: "17:30", Duration: "30 min"})
	if err != nil {
		t.Fatal(err)
	}

	if created.GoogleEventID != "evt-1" {
		t.Errorf("expected calendar event id evt-1, got %q", created.GoogleEventID)
	}
	if f.calendarMock.UpsertCalls != 1 {
		t.Errorf("expected 1 calendar upsert, got %d", f.calendarMock.UpsertCalls)
	}

	persisted, _ := f.taskRepository.FindAll(ctx, f.user.ID)
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted tasks, got %d", len(persisted))
	}
}

func TestSyncService_CreateSurvivesCalendarFailure(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	f.calendarMock.FailUpserts = true

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries"})
	if err != nil {
		t.Fatalf("a calendar failure must not fail the create: %v", err)
	}

	if created.GoogleEventID != "" {
		t.Errorf("a failed sync must not leave an event id, got %q", created.GoogleEventID)
	}

	if _, ok := f.service.Store.Get(f.user.ID, created.ID); !ok {
		t.Error("the task must stay after a calendar failure")
	}
}

func TestSyncService_CreateRollsBackOnPersistenceFailure(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	tasks, err := f.service.List(ctx, f.user, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := len(tasks)

	f.taskRepository.FailWrites = true

	_, err = f.service.Create(ctx, f.user, &Task{Title: "Doomed"})

	var persistenceError *communication.PersistenceError
	if !errors.As(err, &persistenceError) {
		t.Fatalf("expected a persistence error, got %v", err)
	}

	if len(f.service.Store.List(f.user.ID)) != before {
		t.Error("a failed persist must roll the local task back")
	}
	if f.calendarMock.UpsertCalls != 0 {
		t.Errorf("a rolled back create must not reach the calendar, got %d upserts", f.calendarMock.UpsertCalls)
	}
}

func TestSyncService_CreateValidatesBeforeAnyIO(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.user, &Task{Title: ""})

	var validationError *communication.ValidationError
	if !errors.As(err, &validationError) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	if f.taskRepository.UpsertCalls != 0 || f.calendarMock.UpsertCalls != 0 {
		t.Error("an invalid task must be rejected before any write")
	}
}

func TestSyncService_UpdateReusesEventID(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries", Time: "17:30"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.service.Update(ctx, f.user, created.ID, &TaskUpdate{Title: "Buy groceries", Time: "19:00"})
	if err != nil {
		t.Fatal(err)
	}

	if updated.GoogleEventID != "evt-1" {
		t.Errorf("an edit must keep the existing event id, got %q", updated.GoogleEventID)
	}
	if len(f.calendarMock.Events) != 1 {
		t.Errorf("an edit must move the event, not duplicate it, got %d events", len(f.calendarMock.Events))
	}
}

func TestSyncService_UpdateRollsBackOnPersistenceFailure(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Original"})
	if err != nil {
		t.Fatal(err)
	}

	f.taskRepository.FailWrites = true

	_, err = f.service.Update(ctx, f.user, created.ID, &TaskUpdate{Title: "Edited"})

	var persistenceError *communication.PersistenceError
	if !errors.As(err, &persistenceError) {
		t.Fatalf("expected a persistence error, got %v", err)
	}

	current, _ := f.service.Store.Get(f.user.ID, created.ID)
	if current.Title != "Original" {
		t.Errorf("a failed edit must restore the original task, got title %q", current.Title)
	}
}

func TestSyncService_ToggleOnlyTouchesCompletion(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries", Time: "17:30"})
	if err != nil {
		t.Fatal(err)
	}
	calendarCallsAfterCreate := f.calendarMock.UpsertCalls

	completed, err := f.service.Toggle(ctx, f.user, created.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !completed.Completed || completed.CompletedAt.IsZero() {
		t.Error("completing must set Completed and CompletedAt")
	}
	if completed.Title != created.Title || completed.Time != created.Time {
		t.Error("toggling must leave every other field alone")
	}

	reopened, err := f.service.Toggle(ctx, f.user, created.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Completed || !reopened.CompletedAt.IsZero() {
		t.Error("reopening must clear Completed and CompletedAt")
	}

	if f.calendarMock.UpsertCalls != calendarCallsAfterCreate {
		t.Error("toggling must not touch the calendar")
	}
}

func TestSyncService_DeleteRemovesCalendarEvent(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries", Time: "17:30"})
	if err != nil {
		t.Fatal(err)
	}

	err = f.service.Delete(ctx, f.user, created.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(f.calendarMock.DeletedIDs) != 1 || f.calendarMock.DeletedIDs[0] != "evt-1" {
		t.Errorf("expected exactly one calendar delete for evt-1, got %v", f.calendarMock.DeletedIDs)
	}
}

func TestSyncService_DeleteWithoutEventSkipsCalendar(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	err := f.service.Delete(ctx, f.user, "existing")
	if err != nil {
		t.Fatal(err)
	}

	if len(f.calendarMock.DeletedIDs) != 0 {
		t.Errorf("a task without an event must not trigger a calendar delete, got %v", f.calendarMock.DeletedIDs)
	}
}

func TestSyncService_DeleteUnknownTask(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	err := f.service.Delete(ctx, f.user, "no-such-task")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSyncService_BulkCompleteTouchesExactlyTheGivenSet(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	first, _ := f.service.Create(ctx, f.user, &Task{Title: "One"})
	second, _ := f.service.Create(ctx, f.user, &Task{Title: "Two"})
	third, _ := f.service.Create(ctx, f.user, &Task{Title: "Three"})

	tasks, err := f.service.BulkEdit(ctx, f.user, BulkActionComplete, []string{first.ID, third.ID, "no-such-task"})
	if err != nil {
		t.Fatal(err)
	}

	completed := map[string]bool{}
	for _, task := range tasks {
		completed[task.ID] = task.Completed
	}

	if !completed[first.ID] || !completed[third.ID] {
		t.Error("every task in the set must be completed")
	}
	if completed[second.ID] || completed["existing"] {
		t.Error("tasks outside the set must stay untouched")
	}
}

func TestSyncService_BulkDeleteRollsBackTogether(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	first, _ := f.service.Create(ctx, f.user, &Task{Title: "One"})
	second, _ := f.service.Create(ctx, f.user, &Task{Title: "Two"})

	before := len(f.service.Store.List(f.user.ID))
	f.taskRepository.FailWrites = true

	_, err := f.service.BulkEdit(ctx, f.user, BulkActionDelete, []string{first.ID, second.ID})

	var persistenceError *communication.PersistenceError
	if !errors.As(err, &persistenceError) {
		t.Fatalf("expected a persistence error, got %v", err)
	}

	if len(f.service.Store.List(f.user.ID)) != before {
		t.Error("a failed bulk delete must restore every task")
	}
}

func TestSyncService_BulkDeleteAttemptsEveryCalendarDelete(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	first, _ := f.service.Create(ctx, f.user, &Task{Title: "One"})
	second, _ := f.service.Create(ctx, f.user, &Task{Title: "Two"})

	f.calendarMock.FailDeletes = true

	_, err := f.service.BulkEdit(ctx, f.user, BulkActionDelete, []string{first.ID, second.ID})
	if err != nil {
		t.Fatalf("calendar failures must not fail a bulk delete: %v", err)
	}

	if len(f.calendarMock.DeletedIDs) != 2 {
		t.Errorf("every event delete must be attempted even when some fail, got %v", f.calendarMock.DeletedIDs)
	}

	if _, ok := f.service.Store.Get(f.user.ID, first.ID); ok {
		t.Error("the tasks must stay deleted regardless of the calendar")
	}
}

func TestSyncService_SeedsDefaultScheduleForNewUsers(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	f.taskRepository.Tasks = nil

	tasks, err := f.service.List(ctx, f.user, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(tasks) != 3 {
		t.Fatalf("expected the 3 default tasks, got %d", len(tasks))
	}

	persisted, _ := f.taskRepository.FindAll(ctx, f.user.ID)
	if len(persisted) != 3 {
		t.Errorf("the default schedule must be persisted, got %d tasks", len(persisted))
	}
	if f.taskRepository.BatchCalls != 1 {
		t.Errorf("the default schedule must be written in one batch, got %d", f.taskRepository.BatchCalls)
	}
}

func TestSyncService_ListFilters(t *testing.T) {
	f := newSyncServiceFixture(t)
	ctx := context.Background()

	created, _ := f.service.Create(ctx, f.user, &Task{Title: "Buy groceries", Time: "17:30"})
	_, _ = f.service.Toggle(ctx, f.user, created.ID, true)

	pending, err := f.service.List(ctx, f.user, &Query{Completion: CompletionPending})
	if err != nil {
		t.Fatal(err)
	}
	for _, task := range pending {
		if task.Completed {
			t.Errorf("pending filter returned completed task %s", task.Title)
		}
	}

	matches, err := f.service.List(ctx, f.user, &Query{Search: "grocer"})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != created.ID {
		t.Errorf("search must match by title substring, got %d results", len(matches))
	}
}
