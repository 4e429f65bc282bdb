package tasks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskRepository is an in memory task repository for testing
type MockTaskRepository struct {
	Tasks []*Task

	// When set every write returns an error
	FailWrites bool

	UpsertCalls int
	DeleteCalls int
	BatchCalls  int

	subscribers []TaskObserver
}

// FindAll finds all tasks of a user
func (r *MockTaskRepository) FindAll(ctx context.Context, userID primitive.ObjectID) ([]Task, error) {
	t := []Task{}

	for _, task := range r.Tasks {
		if task.UserID == userID {
			t = append(t, *task)
		}
	}

	return t, nil
}

// FindAllDueAt finds pending tasks scheduled at an exact clock time
func (r *MockTaskRepository) FindAllDueAt(ctx context.Context, clock string) ([]Task, error) {
	t := []Task{}

	for _, task := range r.Tasks {
		if task.Time == clock && !task.Completed {
			t = append(t, *task)
		}
	}

	return t, nil
}

// Upsert creates or replaces a task
func (r *MockTaskRepository) Upsert(ctx context.Context, task *Task) error {
	r.UpsertCalls++

	if r.FailWrites {
		return errors.New("mock database is unreachable")
	}

	for i, existing := range r.Tasks {
		if existing.ID == task.ID && existing.UserID == task.UserID {
			stored := *task
			r.Tasks[i] = &stored
			return nil
		}
	}

	stored := *task
	r.Tasks = append(r.Tasks, &stored)

	return nil
}

// UpdateFields persists only the named fields of a task
func (r *MockTaskRepository) UpdateFields(ctx context.Context, userID primitive.ObjectID, taskID string, fields bson.M) error {
	if r.FailWrites {
		return errors.New("mock database is unreachable")
	}

	for _, task := range r.Tasks {
		if task.ID == taskID && task.UserID == userID {
			applyMockFields(task, fields)
			return nil
		}
	}

	return errors.New("updated count != 1")
}

// Delete deletes a task. Deleting an already absent task is not an error.
func (r *MockTaskRepository) Delete(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	r.DeleteCalls++

	if r.FailWrites {
		return errors.New("mock database is unreachable")
	}

	for i, task := range r.Tasks {
		if task.ID == taskID && task.UserID == userID {
			r.Tasks = append(r.Tasks[:i], r.Tasks[i+1:]...)
			return nil
		}
	}

	return nil
}

// Batch applies a list of operations
func (r *MockTaskRepository) Batch(ctx context.Context, userID primitive.ObjectID, operations []BatchOperation) error {
	r.BatchCalls++

	if r.FailWrites {
		return errors.New("mock database is unreachable")
	}

	for _, operation := range operations {
		switch operation.Kind {
		case BatchUpsert:
			operation.Task.UserID = userID
			err := r.Upsert(ctx, operation.Task)
			if err != nil {
				return err
			}
			r.UpsertCalls--
		case BatchUpdate:
			err := r.UpdateFields(ctx, userID, operation.TaskID, operation.Fields)
			if err != nil {
				return err
			}
		case BatchDelete:
			err := r.Delete(ctx, userID, operation.TaskID)
			if err != nil {
				return err
			}
			r.DeleteCalls--
		default:
			return errors.Errorf("unknown batch operation kind %s", operation.Kind)
		}
	}

	return nil
}

func applyMockFields(task *Task, fields bson.M) {
	for field, value := range fields {
		switch field {
		case "title":
			task.Title = value.(string)
		case "time":
			task.Time = value.(string)
		case "duration":
			task.Duration = value.(string)
		case "category":
			task.Category = value.(string)
		case "priority":
			task.Priority = value.(string)
		case "icon":
			task.Icon = value.(string)
		case "completed":
			task.Completed = value.(bool)
		case "completedAt":
			task.CompletedAt = value.(time.Time)
		case "googleEventId":
			task.GoogleEventID = value.(string)
		}
	}
}

// Subscribe is useful for listening to task changes
func (r *MockTaskRepository) Subscribe(o TaskObserver) {
	r.subscribers = append(r.subscribers, o)
}

// Unsubscribe unsubscribes from a subscription
func (r *MockTaskRepository) Unsubscribe(o TaskObserver) {
	var index int
	for i, subscriber := range r.subscribers {
		if subscriber == o {
			index = i
			break
		}
	}

	r.subscribers = append(r.subscribers[:index], r.subscribers[index+1:]...)
}

// Publish publishes a task to all subscribers
func (r *MockTaskRepository) Publish(task *Task) {
	for _, subscriber := range r.subscribers {
		subscriber.OnNotify(task)
	}
}
