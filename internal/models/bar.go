package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is a media-host reference owned exclusively by one bar.
// Filename is the media host's public id and is what delete operations use.
type Image struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
}

// Bar is a listing document. Owner is set at creation and never changes;
// only the owner may update or delete the bar.
type Bar struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string             `bson:"name" json:"name"`
	Location    string             `bson:"location" json:"location"`
	Latitude    float64            `bson:"latitude" json:"latitude"`
	Longitude   float64            `bson:"longitude" json:"longitude"`
	Images      []Image            `bson:"images" json:"images"`
	Rating      float64            `bson:"rating" json:"rating"`
	Description string             `bson:"description" json:"description"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
}

// OwnedBy reports whether userID owns this bar.
func (b *Bar) OwnedBy(userID primitive.ObjectID) bool {
	return b.Owner == userID
}
