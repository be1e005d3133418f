package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. Password is empty for accounts created
// through a social login; at least one of Password, GoogleID or FacebookID
// is always set.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username string `bson:"username" json:"username"`
	Password string `bson:"password,omitempty" json:"-"` // bcrypt hash, never returned

	// External identity references
	GoogleID   string `bson:"google_id,omitempty" json:"-"`
	FacebookID string `bson:"facebook_id,omitempty" json:"-"`

	// Password reset: sha256 hex of the emailed token plus its expiry.
	// Both cleared when the token is consumed.
	ResetPasswordToken   string    `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires time.Time `bson:"reset_password_expires,omitempty" json:"-"`
}

// HasPassword reports whether local login is possible for this account.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
