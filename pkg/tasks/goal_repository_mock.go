package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockGoalRepository is an in memory goal repository for testing
type MockGoalRepository struct {
	Goals []*Goal
}

// FindAll finds all goals of a user
func (r *MockGoalRepository) FindAll(ctx context.Context, userID primitive.ObjectID) ([]Goal, error) {
	g := []Goal{}

	for _, goal := range r.Goals {
		if goal.UserID == userID {
			g = append(g, *goal)
		}
	}

	return g, nil
}

// FindByID finds a single goal
func (r *MockGoalRepository) FindByID(ctx context.Context, userID primitive.ObjectID, goalID string) (*Goal, error) {
	for _, goal := range r.Goals {
		if goal.ID == goalID && goal.UserID == userID {
			found := *goal
			return &found, nil
		}
	}

	return nil, ErrGoalNotFound
}

// Upsert creates or replaces a goal
func (r *MockGoalRepository) Upsert(ctx context.Context, goal *Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	goal.LastModifiedAt = time.Now()

	for i, existing := range r.Goals {
		if existing.ID == goal.ID && existing.UserID == goal.UserID {
			stored := *goal
			r.Goals[i] = &stored
			return nil
		}
	}

	stored := *goal
	r.Goals = append(r.Goals, &stored)

	return nil
}

// Delete deletes a goal
func (r *MockGoalRepository) Delete(ctx context.Context, userID primitive.ObjectID, goalID string) error {
	for i, goal := range r.Goals {
		if goal.ID == goalID && goal.UserID == userID {
			r.Goals = append(r.Goals[:i], r.Goals[i+1:]...)
			return nil
		}
	}

	return ErrGoalNotFound
}
