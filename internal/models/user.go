package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultImage is the image reference assigned to users who have not
// uploaded an avatar yet.
const DefaultImage = "default.jpg"

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Nick        string             `bson:"nick" json:"nick"`
	Email       string             `bson:"email" json:"email"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Password    string             `bson:"password" json:"-"` // Don't return password in JSON
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// PublicUser is the reduced projection exposed by the user listing and the
// follow lists.
type PublicUser struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Nick  string             `bson:"nick" json:"nick"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`
}
