package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminClient(t *testing.T, seed map[string]string) (*Client, *stubAPI) {
	t.Helper()

	c, api := newStubClient(t, seed)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	return c, api
}

func TestTextControlAnonymousIsInert(t *testing.T) {
	c, _ := newStubClient(t, map[string]string{"hero_title": "Stored"})
	require.NoError(t, c.Load(context.Background()))

	control := NewTextControl(c, "hero_title", "Fallback")

	assert.Equal(t, "Stored", control.Value())
	assert.ErrorIs(t, control.BeginEdit(), ErrNotEditable)
	assert.Equal(t, StateViewing, control.State())
}

func TestTextControlFallback(t *testing.T) {
	c, _ := newStubClient(t, nil)

	control := NewTextControl(c, "never_set", "Fallback")
	assert.Equal(t, "Fallback", control.Value())
}

func TestTextControlEditCycle(t *testing.T) {
	c, api := adminClient(t, map[string]string{"hero_title": "Old"})
	ctx := context.Background()

	control := NewTextControl(c, "hero_title", "Fallback")

	require.NoError(t, control.BeginEdit())
	assert.Equal(t, StateEditing, control.State())
	assert.Equal(t, "Old", control.Value())

	control.SetDraft("New")
	assert.Equal(t, "New", control.Value())

	require.NoError(t, control.Commit(ctx))
	assert.Equal(t, StateViewing, control.State())
	assert.Equal(t, "New", control.Value())

	_, upserts, _ := api.counts()
	assert.Equal(t, 1, upserts)
}

func TestTextControlUnchangedCommitSkipsNetwork(t *testing.T) {
	c, api := adminClient(t, map[string]string{"hero_title": "Same"})
	ctx := context.Background()

	control := NewTextControl(c, "hero_title", "Fallback")

	require.NoError(t, control.BeginEdit())
	control.SetDraft("Same")
	require.NoError(t, control.Commit(ctx))

	assert.Equal(t, StateViewing, control.State())

	_, upserts, _ := api.counts()
	assert.Zero(t, upserts)
}

func TestTextControlCommitFailureReverts(t *testing.T) {
	c, api := adminClient(t, map[string]string{"hero_title": "v0"})
	ctx := context.Background()

	control := NewTextControl(c, "hero_title", "Fallback")

	require.NoError(t, control.BeginEdit())
	control.SetDraft("v1")

	api.failUpsert = true

	err := control.Commit(ctx)
	require.Error(t, err)

	// back in Viewing, showing the pre-edit value
	assert.Equal(t, StateViewing, control.State())
	assert.Equal(t, "v0", control.Value())
}

func TestTextControlCancel(t *testing.T) {
	c, api := adminClient(t, map[string]string{"hero_title": "Old"})

	control := NewTextControl(c, "hero_title", "Fallback")

	require.NoError(t, control.BeginEdit())
	control.SetDraft("Discarded")
	control.Cancel()

	assert.Equal(t, StateViewing, control.State())
	assert.Equal(t, "Old", control.Value())

	_, upserts, _ := api.counts()
	assert.Zero(t, upserts)
}

func TestImageControlPreconditions(t *testing.T) {
	anon, _ := newStubClient(t, nil)
	admin, api := adminClient(t, nil)
	ctx := context.Background()

	big := make([]byte, MaxImageBytes+1)

	tests := []struct {
		name        string
		client      *Client
		filename    string
		data        []byte
		contentType string
		wantErr     error
	}{
		{
			name:        "anonymous viewer",
			client:      anon,
			filename:    "a.png",
			data:        []byte("x"),
			contentType: "image/png",
			wantErr:     ErrNotEditable,
		},
		{
			name:        "empty file",
			client:      admin,
			filename:    "a.png",
			contentType: "image/png",
			wantErr:     ErrEmptyFile,
		},
		{
			name:        "not an image",
			client:      admin,
			filename:    "a.pdf",
			data:        []byte("%PDF"),
			contentType: "application/pdf",
			wantErr:     ErrNotImage,
		},
		{
			name:        "over the size ceiling",
			client:      admin,
			filename:    "a.png",
			data:        big,
			contentType: "image/png",
			wantErr:     ErrImageTooLarge,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			control := NewImageControl(tc.client, "hero_image", "fallback.png")

			_, err := control.Upload(ctx, tc.filename, tc.data, tc.contentType)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, StateViewing, control.State())
		})
	}

	// every rejection happened before any network call
	_, _, uploads := api.counts()
	assert.Zero(t, uploads)
}

func TestImageControlUpload(t *testing.T) {
	c, _ := adminClient(t, map[string]string{"hero_image": "old-url"})
	ctx := context.Background()

	control := NewImageControl(c, "hero_image", "fallback.png")
	assert.Equal(t, "old-url", control.URL())

	result, err := control.Upload(ctx, "hero.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, StateViewing, control.State())
	assert.Equal(t, result.URL, control.URL())
}

func TestImageControlUploadFailureKeepsImage(t *testing.T) {
	c, api := adminClient(t, map[string]string{"hero_image": "old-url"})
	ctx := context.Background()

	api.failUpload = true

	control := NewImageControl(c, "hero_image", "fallback.png")

	_, err := control.Upload(ctx, "hero.png", []byte("png-bytes"), "image/png")
	require.Error(t, err)

	assert.Equal(t, StateViewing, control.State())
	assert.Equal(t, "old-url", control.URL())
}
