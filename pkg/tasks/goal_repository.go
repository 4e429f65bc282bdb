package tasks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrGoalNotFound is returned when a goal id matches no stored goal
var ErrGoalNotFound = errors.New("goal not found")

// GoalRepositoryInterface is an interface for a *MongoDBGoalRepository
type GoalRepositoryInterface interface {
	FindAll(ctx context.Context, userID primitive.ObjectID) ([]Goal, error)
	FindByID(ctx context.Context, userID primitive.ObjectID, goalID string) (*Goal, error)
	Upsert(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, userID primitive.ObjectID, goalID string) error
}

// MongoDBGoalRepository stores and finds goals
type MongoDBGoalRepository struct {
	DB *mongo.Collection
}

// FindAll finds all goals of a user
func (s *MongoDBGoalRepository) FindAll(ctx context.Context, userID primitive.ObjectID) ([]Goal, error) {
	g := []Goal{}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"createdAt": 1})

	cursor, err := s.DB.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}

	err = cursor.All(ctx, &g)
	if err != nil {
		return nil, err
	}

	return g, nil
}

// FindByID finds a single goal
func (s *MongoDBGoalRepository) FindByID(ctx context.Context, userID primitive.ObjectID, goalID string) (*Goal, error) {
	result := s.DB.FindOne(ctx, bson.M{"_id": goalID, "userId": userID})

	goal := Goal{}
	err := result.Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	return &goal, nil
}

// Upsert creates a goal or merges it into the stored document
func (s *MongoDBGoalRepository) Upsert(ctx context.Context, goal *Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	goal.LastModifiedAt = time.Now()

	updateOptions := options.Update()
	updateOptions.SetUpsert(true)

	_, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": goal.ID, "userId": goal.UserID},
		bson.M{"$set": goal}, updateOptions)
	if err != nil {
		return err
	}

	return nil
}

// Delete deletes a goal
func (s *MongoDBGoalRepository) Delete(ctx context.Context, userID primitive.ObjectID, goalID string) error {
	result, err := s.DB.DeleteOne(ctx, bson.M{"_id": goalID, "userId": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount != 1 {
		return ErrGoalNotFound
	}

	return nil
}
