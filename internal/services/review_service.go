package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/repository"
)

// ReviewService creates and lists reviews under a bar. Creation only checks
// that the bar exists; anyone may post.
type ReviewService struct {
	reviews repository.ReviewRepository
	bars    repository.BarRepository
}

func NewReviewService(reviews repository.ReviewRepository, bars repository.BarRepository) *ReviewService {
	return &ReviewService{reviews: reviews, bars: bars}
}

// Create validates that the bar exists and persists a new review under it.
// The bar record itself is never mutated.
func (s *ReviewService) Create(ctx context.Context, barID string, user string, rating float64, comment string) (*models.Review, error) {
	barObjectID, err := ParseBarID(barID)
	if err != nil {
		return nil, err
	}

	bar, err := s.bars.FindByID(ctx, barObjectID)
	if err != nil {
		return nil, models.NewUpstreamError("find bar", err)
	}
	if bar == nil {
		return nil, models.ErrNotFound
	}

	review := &models.Review{
		ID:        primitive.NewObjectID(),
		CreatedAt: time.Now(),
		Bar:       bar.ID,
		User:      user,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, models.NewUpstreamError("insert review", err)
	}
	return review, nil
}

// ListForBar returns a bar's reviews, newest first.
func (s *ReviewService) ListForBar(ctx context.Context, barID string) ([]models.Review, error) {
	barObjectID, err := ParseBarID(barID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.FindByBar(ctx, barObjectID)
	if err != nil {
		return nil, models.NewUpstreamError("list reviews", err)
	}
	return reviews, nil
}

// Get returns one review by its own id.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("id", "is not a valid identifier")
	}

	review, err := s.reviews.FindByID(ctx, objectID)
	if err != nil {
		return nil, models.NewUpstreamError("find review", err)
	}
	if review == nil {
		return nil, models.ErrNotFound
	}
	return review, nil
}
