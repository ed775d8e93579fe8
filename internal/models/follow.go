package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a directed edge: User follows Followed.
type Follow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Followed  primitive.ObjectID `bson:"followed" json:"followed"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
