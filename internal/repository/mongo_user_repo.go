package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/barreview/barreview-backend/internal/models"
)

const userCollection = "users"

type MongoUserRepository struct {
	db *mongo.Database
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *MongoUserRepository) FindByFacebookID(ctx context.Context, facebookID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"facebook_id": facebookID})
}

func (r *MongoUserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"reset_password_token": tokenHash})
}

func (r *MongoUserRepository) Insert(ctx context.Context, user *models.User) error {
	_, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	// Full replace: reset fields are cleared by omitting them, so $set alone
	// would leave stale token hashes behind.
	res, err := r.db.Collection(userCollection).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.db.Collection(userCollection).FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
