package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/repository"
)

// BarFields carries the mutable bar fields for create and update. Nil
// pointers and empty strings mean "not provided": update leaves the prior
// value untouched, so an explicit 0 rating or coordinate still overwrites.
type BarFields struct {
	Name        string
	Location    string
	Description string
	Rating      *float64
	Latitude    *float64
	Longitude   *float64
}

// BarService owns the bar lifecycle and the owner-only mutation guard.
// Media-host cleanup is best-effort: destroy failures are logged and never
// block the record operation.
type BarService struct {
	bars  repository.BarRepository
	media MediaHost
}

func NewBarService(bars repository.BarRepository, media MediaHost) *BarService {
	return &BarService{bars: bars, media: media}
}

// ParseBarID validates a path identifier before any store access.
func ParseBarID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("id", "is not a valid identifier")
	}
	return objectID, nil
}

// ListOwned returns every bar owned by userID.
func (s *BarService) ListOwned(ctx context.Context, userID primitive.ObjectID) ([]models.Bar, error) {
	bars, err := s.bars.FindByOwner(ctx, userID)
	if err != nil {
		return nil, models.NewUpstreamError("list bars", err)
	}
	return bars, nil
}

// Create persists a new bar owned by userID. Images were already uploaded by
// the caller's media-upload step.
func (s *BarService) Create(ctx context.Context, userID primitive.ObjectID, fields BarFields, images []models.Image) (*models.Bar, error) {
	now := time.Now()
	bar := &models.Bar{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        fields.Name,
		Location:    fields.Location,
		Description: fields.Description,
		Images:      images,
		Owner:       userID,
	}
	if fields.Rating != nil {
		bar.Rating = *fields.Rating
	}
	if fields.Latitude != nil {
		bar.Latitude = *fields.Latitude
	}
	if fields.Longitude != nil {
		bar.Longitude = *fields.Longitude
	}

	if err := s.bars.Insert(ctx, bar); err != nil {
		return nil, models.NewUpstreamError("insert bar", err)
	}
	return bar, nil
}

// Get returns one bar. The identifier is validated before the store is hit.
func (s *BarService) Get(ctx context.Context, id string) (*models.Bar, error) {
	objectID, err := ParseBarID(id)
	if err != nil {
		return nil, err
	}

	bar, err := s.bars.FindByID(ctx, objectID)
	if err != nil {
		return nil, models.NewUpstreamError("find bar", err)
	}
	if bar == nil {
		return nil, models.ErrNotFound
	}
	return bar, nil
}

// Update merges provided fields into the bar, appends newImages, and removes
// deleteFilenames from both the media host and the image list. Only the
// owner may update. Persisting the record is the success signal; media-host
// failures are logged and tolerated.
func (s *BarService) Update(ctx context.Context, id string, userID primitive.ObjectID, fields BarFields, newImages []models.Image, deleteFilenames []string) (*models.Bar, error) {
	bar, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bar.OwnedBy(userID) {
		return nil, models.ErrForbidden
	}

	if fields.Name != "" {
		bar.Name = fields.Name
	}
	if fields.Location != "" {
		bar.Location = fields.Location
	}
	if fields.Description != "" {
		bar.Description = fields.Description
	}
	if fields.Rating != nil {
		bar.Rating = *fields.Rating
	}
	if fields.Latitude != nil {
		bar.Latitude = *fields.Latitude
	}
	if fields.Longitude != nil {
		bar.Longitude = *fields.Longitude
	}

	bar.Images = append(bar.Images, newImages...)

	if len(deleteFilenames) > 0 {
		for _, filename := range deleteFilenames {
			if err := s.media.Destroy(ctx, filename); err != nil {
				log.Printf("failed to delete image %s: %v", filename, err)
			}
		}
		bar.Images = removeImages(bar.Images, deleteFilenames)
	}

	if err := s.bars.Update(ctx, bar); err != nil {
		return nil, models.NewUpstreamError("update bar", err)
	}
	return bar, nil
}

// Delete removes the bar record after releasing its images from the media
// host. Image-removal failures do not stop the record deletion.
func (s *BarService) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	bar, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !bar.OwnedBy(userID) {
		return models.ErrForbidden
	}

	for _, img := range bar.Images {
		if err := s.media.Destroy(ctx, img.Filename); err != nil {
			log.Printf("failed to delete image %s: %v", img.Filename, err)
		}
	}

	if err := s.bars.Delete(ctx, bar.ID); err != nil {
		return models.NewUpstreamError("delete bar", err)
	}
	return nil
}

func removeImages(images []models.Image, filenames []string) []models.Image {
	drop := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		drop[f] = true
	}

	kept := images[:0]
	for _, img := range images {
		if !drop[img.Filename] {
			kept = append(kept, img)
		}
	}
	return kept
}
