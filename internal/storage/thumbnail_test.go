package storage

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImagePNG renders a small solid color PNG.
func testImagePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 160, B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return buf.Bytes()
}

func TestMakeThumbnail(t *testing.T) {
	thumb, err := makeThumbnail(testImagePNG(t, 1200, 800))
	require.NoError(t, err)
	require.NotEmpty(t, thumb)

	decoded, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.Equal(t, thumbnailSize, bounds.Dx())
	assert.Equal(t, thumbnailSize, bounds.Dy())
}

func TestMakeThumbnailRejectsNonImage(t *testing.T) {
	_, err := makeThumbnail([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrNotImage)
}

func TestMakeThumbnailRejectsEmptyPayload(t *testing.T) {
	_, err := makeThumbnail(nil)
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestThumbnailKey(t *testing.T) {
	testCases := []struct {
		name      string
		objectKey string
		expected  string
	}{
		{
			name:      "jpg extension",
			objectKey: "site-content/abc123.jpg",
			expected:  "site-content/abc123_thumb.jpg",
		},
		{
			name:      "png extension",
			objectKey: "site-content/abc123.png",
			expected:  "site-content/abc123_thumb.jpg",
		},
		{
			name:      "no extension",
			objectKey: "abc123",
			expected:  "abc123_thumb.jpg",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, thumbnailKey(tc.objectKey))
		})
	}
}
