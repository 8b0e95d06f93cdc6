// Package storage talks to the S3 compatible object store holding
// uploaded site images.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotImage is returned when the uploaded payload is not a
	// supported image format.
	ErrNotImage = errors.New("payload is not a supported image")
	// ErrEmptyPayload is returned when the uploaded payload has no bytes.
	ErrEmptyPayload = errors.New("payload is empty")
)

// UploadResult identifies a stored image. URL is the durable address
// written into the setting value; ThumbnailURL points at the derived
// small rendition.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ObjectKey    string `json:"-"`
}

// Gateway stores image payloads and returns durable URLs for them.
type Gateway interface {
	// Upload stores the image and its thumbnail, returning their URLs.
	Upload(ctx context.Context, filename string, data []byte, contentType string) (*UploadResult, error)
	// Remove deletes a stored object and its thumbnail by object key.
	Remove(ctx context.Context, objectKey string) error
}
