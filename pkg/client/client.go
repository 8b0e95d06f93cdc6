// Package client is the consumer SDK for the sitecms settings API. It
// holds a session wide cache of the viewer scoped settings map with
// optimistic update semantics for edits.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Principal is the authenticated identity returned by the auth endpoints.
type Principal struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UploadResult is the durable address of a stored image.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Client talks to the settings and auth API and caches the settings
// map for the session. Reads never fail once constructed: Get falls
// back when the cache has no value.
//
// Edits keep two values per key: the confirmed value from the server
// and, while an update is in flight, the pending optimistic value.
// On failure the pending value is dropped, restoring the confirmed
// value locally, and a refetch runs as a guard against drift.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	token     string
	principal *Principal
	confirmed map[string]string
	pending   map[string]string
	loaded    bool
	loadErr   error
}

// New creates a client for the API at baseURL. A nil httpClient gets a
// default with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		confirmed: make(map[string]string),
		pending:   make(map[string]string),
	}
}

// SetToken installs a bearer token obtained elsewhere.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

// Token returns the current bearer token, empty when anonymous.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// Authenticated reports whether the client holds a bearer token.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// Principal returns the identity from the last login or verify call.
func (c *Client) Principal() *Principal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.principal
}

// Login authenticates and stores the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Principal, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var body struct {
		Token string    `json:"token"`
		User  Principal `json:"user"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &body); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = body.Token
	c.principal = &body.User
	c.mu.Unlock()

	return &body.User, nil
}

// Verify checks the stored token against the server and refreshes the
// cached principal.
func (c *Client) Verify(ctx context.Context) (*Principal, error) {
	var body struct {
		Valid bool      `json:"valid"`
		User  Principal `json:"user"`
	}

	if err := c.doJSON(ctx, http.MethodGet, "/auth/verify", nil, &body); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.principal = &body.User
	c.mu.Unlock()

	return &body.User, nil
}

// Logout discards the token. The server call is an acknowledgment
// only; the local token is dropped even if it fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)

	c.mu.Lock()
	c.token = ""
	c.principal = nil
	c.mu.Unlock()

	return err
}

// ChangePassword rotates the password of the authenticated account.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	payload := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}

	return c.doJSON(ctx, http.MethodPut, "/auth/password", payload, nil)
}

// Load fetches the viewer scoped settings map and replaces the cache.
// A failure is remembered in Err but leaves the previous cache intact,
// so Get keeps working on stale values or fallbacks.
func (c *Client) Load(ctx context.Context) error {
	var body struct {
		Settings map[string]string `json:"settings"`
	}

	err := c.doJSON(ctx, http.MethodGet, "/settings", nil, &body)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.loadErr = err
		return err
	}

	c.confirmed = body.Settings
	if c.confirmed == nil {
		c.confirmed = make(map[string]string)
	}

	c.pending = make(map[string]string)
	c.loaded = true
	c.loadErr = nil

	return nil
}

// Loaded reports whether a settings load has succeeded this session.
func (c *Client) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loaded
}

// Err returns the sticky error of the last failed Load, nil after a
// successful one.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loadErr
}

// Get returns the cached value for key, preferring a pending
// optimistic value over the confirmed one, or fallback when the key is
// absent. It never fails.
func (c *Client) Get(key, fallback string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, ok := c.pending[key]; ok {
		return value
	}

	if value, ok := c.confirmed[key]; ok {
		return value
	}

	return fallback
}

// Update writes the value optimistically: Get returns it immediately,
// before the server confirms. On success it becomes the confirmed
// value. On failure the pending value is dropped, so Get returns the
// previous confirmed value again, a refetch runs to catch drift, and
// the error is returned to the caller.
func (c *Client) Update(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.pending[key] = value
	c.mu.Unlock()

	payload := map[string]string{
		"key":   key,
		"value": value,
	}

	err := c.doJSON(ctx, http.MethodPost, "/settings", payload, nil)

	c.mu.Lock()
	delete(c.pending, key)

	if err == nil {
		c.confirmed[key] = value
	}
	c.mu.Unlock()

	if err != nil {
		// best effort refetch; the local restore above already
		// reverted the visible value
		_ = c.Load(ctx)

		return err
	}

	return nil
}

// Delete removes a setting and drops it from the cache.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/settings/"+key, nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.confirmed, key)
	delete(c.pending, key)
	c.mu.Unlock()

	return nil
}

// UploadImage sends the image to the server and, on success, patches
// the cache with the returned durable URL. On failure the cache is not
// touched; there is no optimistic value to show before the upload
// finishes.
func (c *Client) UploadImage(
	ctx context.Context,
	key, filename string,
	data []byte,
	contentType string,
) (*UploadResult, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="image"; filename=%q`, filename,
	))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}

	if _, err = part.Write(data); err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}

	if err = writer.WriteField("settingKey", key); err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}

	if err = writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/settings/upload-image", buf,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "upload request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	result := &UploadResult{}
	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, errors.Wrap(err, "failed to decode upload response")
	}

	c.mu.Lock()
	c.confirmed[key] = result.URL
	c.mu.Unlock()

	return result, nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}

		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

// apiError maps a non-2xx response to a sentinel wrapped with the
// server's error message.
func apiError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}

	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	message := envelope.Error
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	var kind error

	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = ErrBadRequest
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrServer
	}

	return errors.Wrap(kind, message)
}
