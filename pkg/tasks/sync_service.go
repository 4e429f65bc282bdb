package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/locking"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// ErrTaskNotFound is returned when a task id matches no known task
var ErrTaskNotFound = errors.New("task not found")

// Bulk actions
const (
	BulkActionComplete   = "complete"
	BulkActionIncomplete = "incomplete"
	BulkActionDelete     = "delete"
)

const userLockTTL = time.Second * 30

// SyncService owns every task mutation. It applies changes to the in memory
// Store first, persists them, and mirrors them to the user's calendar.
// Persistence failures roll the local change back, calendar failures never
// do, they only cost the task its event link.
type SyncService struct {
	Store           *Store
	TaskRepository  TaskRepositoryInterface
	CalendarManager *CalendarRepositoryManager
	Locker          locking.LockerInterface
	Logger          logger.Interface
	Location        *time.Location
}

// NewSyncService creates a SyncService
func NewSyncService(taskRepository TaskRepositoryInterface, calendarManager *CalendarRepositoryManager, locker locking.LockerInterface, log logger.Interface, location *time.Location) *SyncService {
	return &SyncService{
		Store:           NewStore(),
		TaskRepository:  taskRepository,
		CalendarManager: calendarManager,
		Locker:          locker,
		Logger:          log,
		Location:        location,
	}
}

func (s *SyncService) lock(ctx context.Context, user *users.User) (locking.LockInterface, error) {
	return s.Locker.Acquire(ctx, fmt.Sprintf("tasks-%s", user.ID.Hex()), userLockTTL)
}

// ensureLoaded fetches the user's tasks on first contact. A brand new user
// with an empty collection gets the default schedule written in one batch.
func (s *SyncService) ensureLoaded(ctx context.Context, user *users.User) error {
	if s.Store.IsLoaded(user.ID) {
		return nil
	}

	persisted, err := s.TaskRepository.FindAll(ctx, user.ID)
	if err != nil {
		return &communication.PersistenceError{Operation: "load tasks", Err: err}
	}

	if len(persisted) == 0 {
		defaults := DefaultScheduleTasks(user.ID, time.Now().In(s.Location))

		operations := make([]BatchOperation, 0, len(defaults))
		for _, task := range defaults {
			operations = append(operations, BatchOperation{Kind: BatchUpsert, Task: task})
		}

		err = s.TaskRepository.Batch(ctx, user.ID, operations)
		if err != nil {
			return &communication.PersistenceError{Operation: "seed default schedule", Err: err}
		}

		for _, task := range defaults {
			persisted = append(persisted, *task)
		}
	}

	s.Store.Seed(user.ID, persisted)

	return nil
}

// List returns the user's tasks, optionally narrowed by a query
func (s *SyncService) List(ctx context.Context, user *users.User, query *Query) ([]Task, error) {
	lock, err := s.lock(ctx, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return nil, err
	}

	return ApplyQuery(s.Store.List(user.ID), query), nil
}

// Create adds a task. The task shows up locally right away, is persisted,
// and then pushed to the calendar when one is connected.
func (s *SyncService) Create(ctx context.Context, user *users.User, task *Task) (*Task, error) {
	if task.Title == "" {
		return nil, &communication.ValidationError{Field: "title", Message: "title must not be empty"}
	}

	lock, err := s.lock(ctx, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return nil, err
	}

	if task.ID == "" {
		task.ID = NewTaskID()
	}
	task.UserID = user.ID
	if task.Category == "" {
		task.Category = CategoryPersonal
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	task.CreatedAt = time.Now()
	task.Syncing = true

	revision := s.Store.Put(user.ID, task)

	err = s.TaskRepository.Upsert(ctx, task)
	if err != nil {
		s.Store.Rollback(user.ID, task.ID, nil)
		return nil, &communication.PersistenceError{Operation: "create task", Err: err}
	}

	s.pushToCalendar(ctx, user, task)

	task.Syncing = false
	s.Store.Commit(user.ID, task, revision)

	result := *task
	return &result, nil
}

// Update edits a task's fields. Completion state is untouched and an
// existing calendar link is reused so the remote event moves instead of
// duplicating.
func (s *SyncService) Update(ctx context.Context, user *users.User, taskID string, update *TaskUpdate) (*Task, error) {
	if update.Title == "" {
		return nil, &communication.ValidationError{Field: "title", Message: "title must not be empty"}
	}

	lock, err := s.lock(ctx, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return nil, err
	}

	previous, ok := s.Store.Get(user.ID, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	task := *previous
	task.Apply(update)
	task.Syncing = true

	revision := s.Store.Put(user.ID, &task)

	err = s.TaskRepository.Upsert(ctx, &task)
	if err != nil {
		s.Store.Rollback(user.ID, taskID, previous)
		return nil, &communication.PersistenceError{Operation: "update task", Err: err}
	}

	s.pushToCalendar(ctx, user, &task)

	task.Syncing = false
	s.Store.Commit(user.ID, &task, revision)

	result := task
	return &result, nil
}

// Toggle flips a task between pending and completed. Only the completion
// fields change and the calendar is left alone.
func (s *SyncService) Toggle(ctx context.Context, user *users.User, taskID string, completed bool) (*Task, error) {
	lock, err := s.lock(ctx, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return nil, err
	}

	previous, ok := s.Store.Get(user.ID, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	task, _, _ := s.Store.SetCompleted(user.ID, taskID, completed)

	err = s.TaskRepository.UpdateFields(ctx, user.ID, taskID, bson.M{
		"completed":   task.Completed,
		"completedAt": task.CompletedAt,
	})
	if err != nil {
		s.Store.Rollback(user.ID, taskID, previous)
		return nil, &communication.PersistenceError{Operation: "toggle task", Err: err}
	}

	if task.Completed {
		s.TaskRepository.Publish(task)
	}

	result := *task
	return &result, nil
}

// Delete removes a task and its calendar event. A failing calendar delete
// only leaves an orphaned event behind, the task itself stays gone.
func (s *SyncService) Delete(ctx context.Context, user *users.User, taskID string) error {
	lock, err := s.lock(ctx, user)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return err
	}

	removed, _, ok := s.Store.Remove(user.ID, taskID)
	if !ok {
		return ErrTaskNotFound
	}

	err = s.TaskRepository.Delete(ctx, user.ID, taskID)
	if err != nil {
		s.Store.Rollback(user.ID, taskID, removed)
		return &communication.PersistenceError{Operation: "delete task", Err: err}
	}

	if removed.GoogleEventID != "" {
		s.deleteFromCalendar(ctx, user, removed)
	}

	return nil
}

// BulkEdit applies one action to a set of tasks in a single database round
// trip. Unknown ids are skipped, the rest succeed or roll back together.
func (s *SyncService) BulkEdit(ctx context.Context, user *users.User, action string, taskIDs []string) ([]Task, error) {
	switch action {
	case BulkActionComplete, BulkActionIncomplete, BulkActionDelete:
	default:
		return nil, &communication.ValidationError{Field: "action", Message: fmt.Sprintf("unknown bulk action %q", action)}
	}

	lock, err := s.lock(ctx, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release(ctx) }()

	err = s.ensureLoaded(ctx, user)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[string]*Task)
	var operations []BatchOperation
	var removed []*Task

	for _, taskID := range taskIDs {
		previous, ok := s.Store.Get(user.ID, taskID)
		if !ok {
			continue
		}
		snapshots[taskID] = previous

		switch action {
		case BulkActionComplete, BulkActionIncomplete:
			task, _, _ := s.Store.SetCompleted(user.ID, taskID, action == BulkActionComplete)
			operations = append(operations, BatchOperation{
				Kind:   BatchUpdate,
				TaskID: taskID,
				Fields: bson.M{"completed": task.Completed, "completedAt": task.CompletedAt},
			})
		case BulkActionDelete:
			task, _, _ := s.Store.Remove(user.ID, taskID)
			removed = append(removed, task)
			operations = append(operations, BatchOperation{Kind: BatchDelete, TaskID: taskID})
		}
	}

	if len(operations) == 0 {
		return s.Store.List(user.ID), nil
	}

	err = s.TaskRepository.Batch(ctx, user.ID, operations)
	if err != nil {
		for taskID, previous := range snapshots {
			s.Store.Rollback(user.ID, taskID, previous)
		}
		return nil, &communication.PersistenceError{Operation: "bulk edit", Err: err}
	}

	if action == BulkActionDelete {
		s.deleteManyFromCalendar(ctx, user, removed)
	}

	return s.Store.List(user.ID), nil
}

// pushToCalendar mirrors a task to the connected calendar. Failures are
// logged and swallowed, the task keeps working without an event.
func (s *SyncService) pushToCalendar(ctx context.Context, user *users.User, task *Task) {
	calendarRepository, err := s.CalendarManager.GetCalendarRepositoryForUser(ctx, user)
	if err != nil {
		if !errors.Is(err, ErrCalendarNotConnected) {
			s.Logger.Warning("could not set up calendar repository", &communication.CalendarError{Operation: "setup", Err: err})
		}
		return
	}

	event := task.CalendarEvent(time.Now().In(s.Location), s.Location)

	eventID, err := calendarRepository.UpsertEvent(event)
	if err != nil {
		s.Logger.Warning("calendar sync failed", &communication.CalendarError{Operation: "upsert event", Err: err})
		return
	}

	if eventID != task.GoogleEventID {
		task.GoogleEventID = eventID

		err = s.TaskRepository.UpdateFields(ctx, user.ID, task.ID, bson.M{"googleEventId": eventID})
		if err != nil {
			s.Logger.Warning("could not persist calendar event id", err)
		}
	}
}

func (s *SyncService) deleteFromCalendar(ctx context.Context, user *users.User, task *Task) {
	calendarRepository, err := s.CalendarManager.GetCalendarRepositoryForUser(ctx, user)
	if err != nil {
		if !errors.Is(err, ErrCalendarNotConnected) {
			s.Logger.Warning("could not set up calendar repository", &communication.CalendarError{Operation: "setup", Err: err})
		}
		return
	}

	err = calendarRepository.DeleteEvent(task.GoogleEventID)
	if err != nil {
		s.Logger.Warning("calendar event delete failed", &communication.CalendarError{Operation: "delete event", Err: err})
	}
}

func (s *SyncService) deleteManyFromCalendar(ctx context.Context, user *users.User, removed []*Task) {
	calendarRepository, err := s.CalendarManager.GetCalendarRepositoryForUser(ctx, user)
	if err != nil {
		if !errors.Is(err, ErrCalendarNotConnected) {
			s.Logger.Warning("could not set up calendar repository", &communication.CalendarError{Operation: "setup", Err: err})
		}
		return
	}

	var group errgroup.Group

	for _, task := range removed {
		if task.GoogleEventID == "" {
			continue
		}

		eventID := task.GoogleEventID
		group.Go(func() error {
			err := calendarRepository.DeleteEvent(eventID)
			if err != nil {
				s.Logger.Warning("calendar event delete failed", &communication.CalendarError{Operation: "delete event " + eventID, Err: err})
			}

			return nil
		})
	}

	_ = group.Wait()
}
