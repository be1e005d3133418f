// Package repository persists users, bars and reviews in MongoDB. Lookups
// return (nil, nil) when no document matches; callers decide whether that is
// an error.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/barreview/barreview-backend/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	FindByFacebookID(ctx context.Context, facebookID string) (*models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type BarRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bar, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Bar, error)
	Insert(ctx context.Context, bar *models.Bar) error
	Update(ctx context.Context, bar *models.Bar) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReviewRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByBar(ctx context.Context, barID primitive.ObjectID) ([]models.Review, error)
	Insert(ctx context.Context, review *models.Review) error
}
