package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barreview/barreview-backend/internal/models"
)

const barCollection = "bars"

type MongoBarRepository struct {
	db *mongo.Database
}

func NewMongoBarRepository(db *mongo.Database) *MongoBarRepository {
	return &MongoBarRepository{db: db}
}

func (r *MongoBarRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bar, error) {
	var bar models.Bar
	err := r.db.Collection(barCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&bar)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func (r *MongoBarRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Bar, error) {
	findOptions := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.db.Collection(barCollection).Find(ctx, bson.M{"owner": owner}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bars := []models.Bar{}
	if err := cursor.All(ctx, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *MongoBarRepository) Insert(ctx context.Context, bar *models.Bar) error {
	_, err := r.db.Collection(barCollection).InsertOne(ctx, bar)
	return err
}

func (r *MongoBarRepository) Update(ctx context.Context, bar *models.Bar) error {
	bar.UpdatedAt = time.Now()
	res, err := r.db.Collection(barCollection).ReplaceOne(ctx, bson.M{"_id": bar.ID}, bar)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoBarRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.db.Collection(barCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}
