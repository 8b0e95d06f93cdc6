package storage

import (
	"bytes"

	"github.com/disintegration/imaging"
)

const (
	thumbnailSize = 300
)

// makeThumbnail decodes the image and produces a JPEG thumbnail filling
// a square of thumbnailSize pixels.
func makeThumbnail(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}

	thumb := imaging.Fill(src, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
