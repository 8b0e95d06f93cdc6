package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/sitecms/sitecms/internal/config"
)

// MinioGateway implements Gateway against a MinIO / S3 compatible store.
type MinioGateway struct {
	client  *minio.Client
	bucket  string
	folder  string
	baseURL string
}

// NewMinioGateway connects to the configured object store and ensures
// the target bucket exists.
func NewMinioGateway(ctx context.Context, cfg config.Storage) (*MinioGateway, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}

		log.Info().Str("bucket", cfg.Bucket).Msg("created object storage bucket")
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}

	return &MinioGateway{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  cfg.Folder,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload stores the original image plus a derived thumbnail and returns
// durable URLs for both. Nothing is stored when thumbnail derivation
// fails, so a failed upload leaves no partial state.
func (g *MinioGateway) Upload(
	ctx context.Context,
	filename string,
	data []byte,
	contentType string,
) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	thumb, err := makeThumbnail(data)
	if err != nil {
		return nil, err
	}

	objectKey := g.objectKey(filename)
	thumbKey := thumbnailKey(objectKey)

	_, err = g.client.PutObject(ctx, g.bucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	_, err = g.client.PutObject(ctx, g.bucket, thumbKey,
		bytes.NewReader(thumb), int64(len(thumb)),
		minio.PutObjectOptions{ContentType: "image/jpeg"},
	)
	if err != nil {
		// the original is already stored; remove it so the upload is
		// all-or-nothing
		if removeErr := g.client.RemoveObject(ctx, g.bucket, objectKey, minio.RemoveObjectOptions{}); removeErr != nil {
			log.Error().Err(removeErr).Str("object", objectKey).Msg("failed to clean up after thumbnail store failure")
		}

		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	return &UploadResult{
		URL:          g.objectURL(objectKey),
		ThumbnailURL: g.objectURL(thumbKey),
		ObjectKey:    objectKey,
	}, nil
}

// Remove deletes a stored object and its thumbnail.
func (g *MinioGateway) Remove(ctx context.Context, objectKey string) error {
	if err := g.client.RemoveObject(ctx, g.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}

	if err := g.client.RemoveObject(ctx, g.bucket, thumbnailKey(objectKey), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove thumbnail: %w", err)
	}

	return nil
}

// objectKey builds a collision free key preserving the original file
// extension.
func (g *MinioGateway) objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	key := uuid.NewString() + ext
	if g.folder != "" {
		key = g.folder + "/" + key
	}

	return key
}

func (g *MinioGateway) objectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", g.baseURL, g.bucket, objectKey)
}

// thumbnailKey derives the thumbnail object key from the original key.
func thumbnailKey(objectKey string) string {
	ext := filepath.Ext(objectKey)

	return strings.TrimSuffix(objectKey, ext) + "_thumb.jpg"
}
