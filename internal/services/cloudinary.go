package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/barreview/barreview-backend/internal/models"
)

// mediaFolder is the folder on the media host where bar images live.
const mediaFolder = "BarReview"

// MediaHost uploads and deletes bar images. Filenames are the host's public
// ids; deletes by filename are best-effort from the caller's point of view.
type MediaHost interface {
	Upload(ctx context.Context, file multipart.File) (models.Image, error)
	Destroy(ctx context.Context, filename string) error
}

// CloudinaryService implements MediaHost against Cloudinary.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) Upload(ctx context.Context, file multipart.File) (models.Image, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := s.cld.Upload.Upload(ctx, fileBytes, uploader.UploadParams{
		Folder:       mediaFolder,
		ResourceType: "image",
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return models.Image{URL: result.SecureURL, Filename: result.PublicID}, nil
}

func (s *CloudinaryService) Destroy(ctx context.Context, filename string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: filename})
	if err != nil {
		return fmt.Errorf("failed to delete %s from Cloudinary: %w", filename, err)
	}
	return nil
}

// UploadFromHeader opens a multipart file header and uploads it.
func UploadFromHeader(ctx context.Context, host MediaHost, fileHeader *multipart.FileHeader) (models.Image, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return host.Upload(ctx, file)
}
