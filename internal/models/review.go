package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is attached to one bar through the Bar reference. The User field is
// a free-text display label, not a link to an account.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Bar     primitive.ObjectID `bson:"bar" json:"bar"`
	User    string             `bson:"user" json:"user"`
	Rating  float64            `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}
