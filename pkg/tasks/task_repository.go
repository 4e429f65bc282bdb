package tasks

import (
	"context"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Batch operation kinds
const (
	BatchUpsert = "upsert"
	BatchUpdate = "update"
	BatchDelete = "delete"
)

// BatchOperation is one entry of a batch write
type BatchOperation struct {
	Kind   string
	TaskID string
	Task   *Task
	Fields bson.M
}

// TaskRepositoryInterface is an interface for a *MongoDBTaskRepository
type TaskRepositoryInterface interface {
	FindAll(ctx context.Context, userID primitive.ObjectID) ([]Task, error)
	FindAllDueAt(ctx context.Context, clock string) ([]Task, error)
	Upsert(ctx context.Context, task *Task) error
	UpdateFields(ctx context.Context, userID primitive.ObjectID, taskID string, fields bson.M) error
	Delete(ctx context.Context, userID primitive.ObjectID, taskID string) error
	Batch(ctx context.Context, userID primitive.ObjectID, operations []BatchOperation) error

	TaskObservable
}

// TaskObserver is an Observer
type TaskObserver interface {
	OnNotify(task *Task)
}

// TaskObservable is an Observable
type TaskObservable interface {
	Subscribe(o TaskObserver)
	Unsubscribe(o TaskObserver)
	Publish(task *Task)
}

// MongoDBTaskRepository does everything related to storing and finding tasks
type MongoDBTaskRepository struct {
	DB          *mongo.Collection
	Logger      logger.Interface
	subscribers []TaskObserver
}

// FindAll finds all tasks of a user
func (s *MongoDBTaskRepository) FindAll(ctx context.Context, userID primitive.ObjectID) ([]Task, error) {
	t := []Task{}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"time": 1})

	cursor, err := s.DB.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}

	err = cursor.All(ctx, &t)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// FindAllDueAt finds pending tasks of every user scheduled at an exact clock
// time, used by the reminder scheduler
func (s *MongoDBTaskRepository) FindAllDueAt(ctx context.Context, clock string) ([]Task, error) {
	t := []Task{}

	cursor, err := s.DB.Find(ctx, bson.M{"time": clock, "completed": false})
	if err != nil {
		return nil, err
	}

	err = cursor.All(ctx, &t)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Upsert creates a task or merges it into the stored document
func (s *MongoDBTaskRepository) Upsert(ctx context.Context, task *Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.LastModifiedAt = time.Now()

	updateOptions := options.Update()
	updateOptions.SetUpsert(true)

	_, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": task.ID, "userId": task.UserID},
		bson.M{"$set": task}, updateOptions)
	if err != nil {
		return err
	}

	s.Publish(task)

	return nil
}

// UpdateFields persists only the named fields of a task
func (s *MongoDBTaskRepository) UpdateFields(ctx context.Context, userID primitive.ObjectID, taskID string, fields bson.M) error {
	set := bson.M{"lastModifiedAt": time.Now()}
	for field, value := range fields {
		set[field] = value
	}

	result, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": taskID, "userId": userID},
		bson.M{"$set": set})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return errors.New("updated count != 1")
	}

	return nil
}

// Delete deletes a task. Deleting an already absent task is not an error.
func (s *MongoDBTaskRepository) Delete(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	_, err := s.DB.DeleteOne(ctx, bson.M{"_id": taskID, "userId": userID})
	if err != nil {
		return err
	}

	return nil
}

// Batch applies a list of operations as a single bulk write
func (s *MongoDBTaskRepository) Batch(ctx context.Context, userID primitive.ObjectID, operations []BatchOperation) error {
	if len(operations) == 0 {
		return nil
	}

	var models []mongo.WriteModel

	for _, operation := range operations {
		switch operation.Kind {
		case BatchUpsert:
			operation.Task.UserID = userID
			if operation.Task.CreatedAt.IsZero() {
				operation.Task.CreatedAt = time.Now()
			}
			operation.Task.LastModifiedAt = time.Now()

			model := mongo.NewUpdateOneModel()
			model.SetFilter(bson.M{"_id": operation.Task.ID, "userId": userID})
			model.SetUpdate(bson.M{"$set": operation.Task})
			model.SetUpsert(true)
			models = append(models, model)
		case BatchUpdate:
			set := bson.M{"lastModifiedAt": time.Now()}
			for field, value := range operation.Fields {
				set[field] = value
			}

			model := mongo.NewUpdateOneModel()
			model.SetFilter(bson.M{"_id": operation.TaskID, "userId": userID})
			model.SetUpdate(bson.M{"$set": set})
			models = append(models, model)
		case BatchDelete:
			model := mongo.NewDeleteOneModel()
			model.SetFilter(bson.M{"_id": operation.TaskID, "userId": userID})
			models = append(models, model)
		default:
			return errors.Errorf("unknown batch operation kind %s", operation.Kind)
		}
	}

	bulkOptions := options.BulkWrite()
	bulkOptions.SetOrdered(true)

	_, err := s.DB.BulkWrite(ctx, models, bulkOptions)
	if err != nil {
		return err
	}

	return nil
}

// Subscribe is useful for listening to task changes
func (s *MongoDBTaskRepository) Subscribe(o TaskObserver) {
	s.subscribers = append(s.subscribers, o)
}

// Unsubscribe unsubscribes from a subscription
func (s *MongoDBTaskRepository) Unsubscribe(o TaskObserver) {
	var index int
	for i, subscriber := range s.subscribers {
		if subscriber == o {
			index = i
			break
		}
	}

	s.subscribers = append(s.subscribers[:index], s.subscribers[index+1:]...)
}

// Publish publishes a task to all subscribers
func (s *MongoDBTaskRepository) Publish(task *Task) {
	for _, subscriber := range s.subscribers {
		go subscriber.OnNotify(task)
	}
}
