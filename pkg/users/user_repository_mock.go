package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is an in-memory UserRepositoryInterface for tests
type MockUserRepository struct {
	Users []*User
}

// Add adds a user
func (r *MockUserRepository) Add(_ context.Context, user *User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.Users = append(r.Users, user)
	return nil
}

// FindByID finds a user by ID
func (r *MockUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range r.Users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByEmail finds a user by email
func (r *MockUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range r.Users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByGoogleStateToken finds a user by its Google state token
func (r *MockUserRepository) FindByGoogleStateToken(_ context.Context, stateToken string) (*User, error) {
	for _, user := range r.Users {
		if user.GoogleCalendarConnection.StateToken == stateToken {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByVerificationToken finds a user by its email verification token
func (r *MockUserRepository) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	for _, user := range r.Users {
		if user.EmailVerificationToken == token {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// Update replaces a stored user
func (r *MockUserRepository) Update(_ context.Context, user *User) error {
	for i, stored := range r.Users {
		if stored.ID == user.ID {
			r.Users[i] = user
			return nil
		}
	}

	return errors.New("user not found")
}

// Remove deletes a user
func (r *MockUserRepository) Remove(_ context.Context, id string) error {
	for i, u := range r.Users {
		if u.ID.Hex() == id {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			return nil
		}
	}

	return errors.New("user not found")
}
