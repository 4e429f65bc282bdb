package tasks

import (
	"sort"
	"sync"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the in memory mirror of every user's task list. Mutations bump a
// per task revision counter so that a confirmation arriving after a newer
// local change can be recognized as stale and discarded.
type Store struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*userTasks
}

type userTasks struct {
	tasks     map[string]*Task
	revisions map[string]int64
	loaded    bool
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{users: make(map[primitive.ObjectID]*userTasks)}
}

func (s *Store) userEntry(userID primitive.ObjectID) *userTasks {
	entry, ok := s.users[userID]
	if !ok {
		entry = &userTasks{
			tasks:     make(map[string]*Task),
			revisions: make(map[string]int64),
		}
		s.users[userID] = entry
	}

	return entry
}

// IsLoaded tells whether a user's tasks were already fetched from persistence
func (s *Store) IsLoaded(userID primitive.ObjectID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.users[userID]
	return ok && entry.loaded
}

// Seed replaces a user's mirror with the persisted task list
func (s *Store) Seed(userID primitive.ObjectID, tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	entry.tasks = make(map[string]*Task, len(tasks))
	for i := range tasks {
		task := tasks[i]
		entry.tasks[task.ID] = &task
	}
	entry.loaded = true
}

// Put applies a task to the mirror and returns the revision the caller must
// later confirm with Commit
func (s *Store) Put(userID primitive.ObjectID, task *Task) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	stored := *task
	entry.tasks[task.ID] = &stored
	entry.revisions[task.ID]++

	return entry.revisions[task.ID]
}

// SetCompleted flips a task's completion state and returns the updated copy
// together with its revision. The bool reports whether the task exists.
func (s *Store) SetCompleted(userID primitive.ObjectID, taskID string, completed bool) (*Task, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	task, ok := entry.tasks[taskID]
	if !ok {
		return nil, 0, false
	}

	task.Completed = completed
	if completed {
		task.CompletedAt = time.Now()
	} else {
		task.CompletedAt = time.Time{}
	}
	entry.revisions[taskID]++

	updated := *task
	return &updated, entry.revisions[taskID], true
}

// Remove takes a task out of the mirror and returns the removed copy with its
// revision so the caller can restore it on rollback
func (s *Store) Remove(userID primitive.ObjectID, taskID string) (*Task, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	task, ok := entry.tasks[taskID]
	if !ok {
		return nil, 0, false
	}

	delete(entry.tasks, taskID)
	entry.revisions[taskID]++

	removed := *task
	return &removed, entry.revisions[taskID], true
}

// Commit confirms a previously returned revision. When the revision is no
// longer current a newer local change won the race and the confirmation is
// dropped. The bool reports whether the commit was applied.
func (s *Store) Commit(userID primitive.ObjectID, task *Task, revision int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	if entry.revisions[task.ID] != revision {
		return false
	}

	if _, ok := entry.tasks[task.ID]; !ok {
		return false
	}

	stored := *task
	entry.tasks[task.ID] = &stored

	return true
}

// Rollback restores the mirror to a pre mutation snapshot. A nil previous
// task means the mutation created the task and rolling back removes it.
func (s *Store) Rollback(userID primitive.ObjectID, taskID string, previous *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	if previous == nil {
		delete(entry.tasks, taskID)
	} else {
		restored := *previous
		entry.tasks[taskID] = &restored
	}
	entry.revisions[taskID]++
}

// Get returns a copy of a single task
func (s *Store) Get(userID primitive.ObjectID, taskID string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	task, ok := entry.tasks[taskID]
	if !ok {
		return nil, false
	}

	found := *task
	return &found, true
}

// List returns copies of all tasks of a user ordered by their clock time,
// tasks without a readable time last
func (s *Store) List(userID primitive.ObjectID) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.userEntry(userID)
	tasks := make([]Task, 0, len(entry.tasks))
	for _, task := range entry.tasks {
		tasks = append(tasks, *task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a := date.ClockMinutes(tasks[i].Time)
		b := date.ClockMinutes(tasks[j].Time)
		if a != b {
			return a < b
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks
}
