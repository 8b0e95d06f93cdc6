package client

import (
	"context"
	"strings"
	"sync"
)

// MaxImageBytes is the size ceiling an image control accepts before
// sending anything to the server.
const MaxImageBytes = 10 << 20

// ControlState is the lifecycle state of an editable content control.
type ControlState int

const (
	// StateViewing renders the committed value; the control is inert
	// unless the viewer is an admin.
	StateViewing ControlState = iota

	// StateEditing holds an uncommitted draft.
	StateEditing

	// StateSaving has an update in flight.
	StateSaving

	// StateUploading has an image upload in flight.
	StateUploading
)

// TextControl binds one setting key to an in place editable text
// element. Only an authenticated admin can move it out of Viewing; for
// everyone else it renders as plain content.
type TextControl struct {
	client   *Client
	key      string
	fallback string

	mu    sync.Mutex
	state ControlState
	draft string
}

// NewTextControl creates a text control bound to key. fallback is
// shown when the cache has no value for the key.
func NewTextControl(c *Client, key, fallback string) *TextControl {
	return &TextControl{
		client:   c,
		key:      key,
		fallback: fallback,
	}
}

// State returns the control's current lifecycle state.
func (t *TextControl) State() ControlState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Value returns what the control displays right now: the draft while
// editing or saving, otherwise the cached value or the fallback.
func (t *TextControl) Value() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateEditing || t.state == StateSaving {
		return t.draft
	}

	return t.client.Get(t.key, t.fallback)
}

// BeginEdit moves the control into Editing, seeding the draft with the
// displayed value. It fails with ErrNotEditable for anonymous viewers
// and is a no-op outside Viewing.
func (t *TextControl) BeginEdit() error {
	if !t.client.Authenticated() {
		return ErrNotEditable
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateViewing {
		return nil
	}

	t.draft = t.client.Get(t.key, t.fallback)
	t.state = StateEditing

	return nil
}

// SetDraft replaces the in-progress draft. Ignored outside Editing.
func (t *TextControl) SetDraft(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateEditing {
		t.draft = value
	}
}

// Commit saves the draft and returns to Viewing. An unchanged draft
// returns directly with no network call. On failure the update's
// rollback already restored the previous cached value, so the control
// visibly reverts; the error is returned for the UI to react to.
func (t *TextControl) Commit(ctx context.Context) error {
	t.mu.Lock()

	if t.state != StateEditing {
		t.mu.Unlock()
		return nil
	}

	draft := t.draft

	if draft == t.client.Get(t.key, t.fallback) {
		t.state = StateViewing
		t.mu.Unlock()

		return nil
	}

	t.state = StateSaving
	t.mu.Unlock()

	err := t.client.Update(ctx, t.key, draft)

	t.mu.Lock()
	t.state = StateViewing
	t.draft = ""
	t.mu.Unlock()

	return err
}

// Cancel discards the draft and returns to Viewing with no network
// call.
func (t *TextControl) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateEditing {
		return
	}

	t.draft = ""
	t.state = StateViewing
}

// ImageControl binds one setting key to an image whose replacement is
// admin gated. Selection preconditions run locally before any network
// call.
type ImageControl struct {
	client   *Client
	key      string
	fallback string

	mu    sync.Mutex
	state ControlState
}

// NewImageControl creates an image control bound to key. fallback is
// the URL shown when the cache has no value for the key.
func NewImageControl(c *Client, key, fallback string) *ImageControl {
	return &ImageControl{
		client:   c,
		key:      key,
		fallback: fallback,
	}
}

// State returns the control's current lifecycle state.
func (i *ImageControl) State() ControlState {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.state
}

// URL returns the image address the control displays right now.
func (i *ImageControl) URL() string {
	return i.client.Get(i.key, i.fallback)
}

// Upload validates the selected file locally, then sends it and binds
// the returned durable URL to the key. A failed upload leaves the
// previous image in place.
func (i *ImageControl) Upload(
	ctx context.Context,
	filename string,
	data []byte,
	contentType string,
) (*UploadResult, error) {
	if !i.client.Authenticated() {
		return nil, ErrNotEditable
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	i.mu.Lock()

	if i.state != StateViewing {
		i.mu.Unlock()
		return nil, ErrNotEditable
	}

	i.state = StateUploading
	i.mu.Unlock()

	result, err := i.client.UploadImage(ctx, i.key, filename, data, contentType)

	i.mu.Lock()
	i.state = StateViewing
	i.mu.Unlock()

	return result, err
}
