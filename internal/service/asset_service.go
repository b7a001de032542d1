package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"coursecatalog/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssetService stores uploaded course images and hands back a stable public
// URL. Uploads are independent of course persistence: a record only ever
// references the returned URL.
type AssetService interface {
	Upload(ctx context.Context, data []byte, declaredType, purpose string) (string, error)
}

// s3PutObjectAPI is the slice of the S3 client the service needs; tests
// substitute a fake.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type assetService struct {
	client        s3PutObjectAPI
	bucketName    string
	publicBaseURL string
	assetLogger   zerolog.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(client s3PutObjectAPI, bucketName, publicBaseURL string, logger zerolog.Logger) AssetService {
	return &assetService{
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		assetLogger:   logger.With().Str("service", "AssetService").Logger(),
	}
}

// Upload sniffs the payload, rejects anything that is not an image, and
// writes the bytes under a fresh object key namespaced by purpose.
func (s *assetService) Upload(ctx context.Context, data []byte, declaredType, purpose string) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		s.assetLogger.Warn().Str("declared_type", declaredType).Str("detected_type", contentType).Msg("Rejected non-image upload")
		return "", apperr.ErrUnsupportedMedia
	}

	objectKey := fmt.Sprintf("assets/%s/%s%s", purpose, uuid.NewString(), extensionFor(contentType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.assetLogger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to upload asset")
		return "", apperr.Storage(err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucketName, objectKey), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
