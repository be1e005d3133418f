package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barreview/barreview-backend/internal/models"
)

const reviewCollection = "reviews"

type MongoReviewRepository struct {
	db *mongo.Database
}

func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{db: db}
}

func (r *MongoReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.db.Collection(reviewCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *MongoReviewRepository) FindByBar(ctx context.Context, barID primitive.ObjectID) ([]models.Review, error) {
	findOptions := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.db.Collection(reviewCollection).Find(ctx, bson.M{"bar": barID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *MongoReviewRepository) Insert(ctx context.Context, review *models.Review) error {
	_, err := r.db.Collection(reviewCollection).InsertOne(ctx, review)
	return err
}
