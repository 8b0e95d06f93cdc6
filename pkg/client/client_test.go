package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stubToken    = "stub-token"
	stubEmail    = "admin@creativemicroink.com"
	stubPassword = "correct horse battery"
)

// stubAPI is an in-memory stand-in for the settings and auth API. It
// counts requests per route so tests can assert which calls happened.
type stubAPI struct {
	mu       sync.Mutex
	settings map[string]string

	failUpsert bool
	failUpload bool
	failList   bool

	lists   int
	upserts int
	uploads int
}

func (s *stubAPI) bearerOK(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+stubToken
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *stubAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Email != stubEmail || req.Password != stubPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"token": stubToken,
			"user":  Principal{ID: 1, Email: stubEmail, Name: "Studio Admin"},
		})
	})

	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if !s.bearerOK(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"valid": true,
			"user":  Principal{ID: 1, Email: stubEmail, Name: "Studio Admin"},
		})
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})

	mux.HandleFunc("GET /settings", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.lists++

		if s.failList {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}

		values := make(map[string]string, len(s.settings))
		for key, value := range s.settings {
			values[key] = value
		}

		writeJSON(w, http.StatusOK, map[string]any{"settings": values})
	})

	mux.HandleFunc("POST /settings", func(w http.ResponseWriter, r *http.Request) {
		if !s.bearerOK(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.upserts++

		if s.failUpsert {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}

		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}

		_ = json.NewDecoder(r.Body).Decode(&req)
		s.settings[req.Key] = req.Value

		writeJSON(w, http.StatusOK, map[string]string{"key": req.Key, "value": req.Value})
	})

	mux.HandleFunc("DELETE /settings/{key}", func(w http.ResponseWriter, r *http.Request) {
		if !s.bearerOK(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		key := r.PathValue("key")

		if _, ok := s.settings[key]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Setting not found"})
			return
		}

		delete(s.settings, key)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Setting deleted"})
	})

	mux.HandleFunc("POST /settings/upload-image", func(w http.ResponseWriter, r *http.Request) {
		if !s.bearerOK(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.uploads++

		if s.failUpload {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to upload image"})
			return
		}

		if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Image file is required"})
			return
		}

		key := r.FormValue("settingKey")
		_, header, err := r.FormFile("image")

		if err != nil || key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Image file is required"})
			return
		}

		url := "https://cdn.example.com/uploads/" + header.Filename
		s.settings[key] = url

		writeJSON(w, http.StatusOK, map[string]string{
			"url":          url,
			"thumbnailUrl": "https://cdn.example.com/uploads/thumb_" + header.Filename,
		})
	})

	return mux
}

func (s *stubAPI) counts() (lists, upserts, uploads int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lists, s.upserts, s.uploads
}

func newStubClient(t *testing.T, seed map[string]string) (*Client, *stubAPI) {
	t.Helper()

	if seed == nil {
		seed = make(map[string]string)
	}

	api := &stubAPI{settings: seed}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	return New(server.URL, server.Client()), api
}

func TestLoginVerifyLogout(t *testing.T) {
	c, _ := newStubClient(t, nil)
	ctx := context.Background()

	assert.False(t, c.Authenticated())

	_, err := c.Login(ctx, stubEmail, "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.Authenticated())

	principal, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)
	assert.True(t, c.Authenticated())
	assert.Equal(t, stubEmail, principal.Email)

	verified, err := c.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, principal.Email, verified.Email)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Authenticated())
	assert.Nil(t, c.Principal())
}

func TestLoadAndGet(t *testing.T) {
	c, api := newStubClient(t, map[string]string{
		"site_name": "CreativeMicroInk",
	})
	ctx := context.Background()

	// before load, Get serves fallbacks and never fails
	assert.Equal(t, "fallback", c.Get("site_name", "fallback"))
	assert.False(t, c.Loaded())

	require.NoError(t, c.Load(ctx))
	assert.True(t, c.Loaded())
	assert.NoError(t, c.Err())
	assert.Equal(t, "CreativeMicroInk", c.Get("site_name", "fallback"))
	assert.Equal(t, "fallback", c.Get("never_set", "fallback"))

	// a failed reload is sticky in Err but keeps the old cache
	api.failList = true
	assert.Error(t, c.Load(ctx))
	assert.Error(t, c.Err())
	assert.Equal(t, "CreativeMicroInk", c.Get("site_name", "fallback"))

	api.failList = false
	require.NoError(t, c.Load(ctx))
	assert.NoError(t, c.Err())
}

func TestUpdateRoundTrip(t *testing.T) {
	c, _ := newStubClient(t, map[string]string{"site_name": "Old"})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	require.NoError(t, c.Update(ctx, "site_name", "New"))
	assert.Equal(t, "New", c.Get("site_name", ""))
}

func TestUpdateRollback(t *testing.T) {
	c, api := newStubClient(t, map[string]string{"site_name": "v0"})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	api.failUpsert = true
	listsBefore, _, _ := api.counts()

	err = c.Update(ctx, "site_name", "v1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)

	// the optimistic value is gone and the confirmed one is back
	assert.Equal(t, "v0", c.Get("site_name", ""))

	// the drift guard refetched the map
	listsAfter, _, _ := api.counts()
	assert.Greater(t, listsAfter, listsBefore)
}

func TestUpdateWithoutToken(t *testing.T) {
	c, _ := newStubClient(t, map[string]string{"site_name": "v0"})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	err := c.Update(ctx, "site_name", "v1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "v0", c.Get("site_name", ""))
}

func TestDelete(t *testing.T) {
	c, _ := newStubClient(t, map[string]string{"site_name": "v0"})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "site_name"))
	assert.Equal(t, "fallback", c.Get("site_name", "fallback"))

	assert.ErrorIs(t, c.Delete(ctx, "site_name"), ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	c, _ := newStubClient(t, nil)
	ctx := context.Background()

	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	result, err := c.UploadImage(ctx, "hero_image", "hero.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.URL, "hero.png"))
	assert.NotEmpty(t, result.ThumbnailURL)

	// the cache is patched with the durable URL
	assert.Equal(t, result.URL, c.Get("hero_image", ""))
}

func TestUploadImageFailureKeepsCache(t *testing.T) {
	c, api := newStubClient(t, map[string]string{"hero_image": "old-url"})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	_, err := c.Login(ctx, stubEmail, stubPassword)
	require.NoError(t, err)

	api.failUpload = true

	_, err = c.UploadImage(ctx, "hero_image", "hero.png", []byte("png-bytes"), "image/png")
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "old-url", c.Get("hero_image", ""))
}
