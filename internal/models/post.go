package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Text      string               `bson:"text" json:"text"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments  []primitive.ObjectID `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
