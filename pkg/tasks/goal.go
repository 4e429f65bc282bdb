package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a long-running numeric target independent of daily tasks
type Goal struct {
	ID             string             `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Title          string             `json:"title" bson:"title" validate:"required"`
	Current        int                `json:"current" bson:"current" validate:"gte=0"`
	Target         int                `json:"target" bson:"target" validate:"required,gt=0"`
}

// ApplyProgress moves the goal's progress by delta, clamped to [0, Target]
func (g *Goal) ApplyProgress(delta int) {
	g.Current += delta

	if g.Current < 0 {
		g.Current = 0
	}

	if g.Current > g.Target {
		g.Current = g.Target
	}
}
