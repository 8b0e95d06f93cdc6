// Package settings enforces the public/admin visibility partition over
// the settings store and composes image uploads with setting writes.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	settingctl "github.com/sitecms/sitecms/internal/db/controller/setting"
	"github.com/sitecms/sitecms/internal/db/models"
	"github.com/sitecms/sitecms/internal/storage"
	"github.com/sitecms/sitecms/internal/token"
)

// ErrSettingNotFound is re-exported so handlers can map it to a 404
// without importing the controller package.
var ErrSettingNotFound = settingctl.ErrSettingNotFound

// Service is the viewer-scoped settings facade. All reads consult the
// same injected PublicSet, keeping the two read paths in agreement.
type Service struct {
	db      *gorm.DB
	gateway storage.Gateway
	public  PublicSet
}

// NewService creates a settings service.
func NewService(db *gorm.DB, gateway storage.Gateway, public PublicSet) *Service {
	return &Service{
		db:      db,
		gateway: gateway,
		public:  public,
	}
}

// Public returns the injected visibility set.
func (s *Service) Public() PublicSet {
	return s.public
}

// List returns settings visible to the viewer: all rows for an
// authenticated principal, only public rows for an anonymous one.
// Rows are ordered by key ascending.
func (s *Service) List(principal *token.Principal) (map[string]string, []models.Setting, error) {
	var (
		rows []models.Setting
		err  error
	)

	if principal != nil {
		rows, err = settingctl.GetAll(s.db)
	} else {
		rows, err = settingctl.GetByKeys(s.db, s.public.Keys())
	}

	if err != nil {
		return nil, nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	return values, rows, nil
}

// GetOne returns a single setting, enforcing the same visibility
// partition as List: anonymous viewers may only read public keys.
func (s *Service) GetOne(principal *token.Principal, key string) (*models.Setting, error) {
	if principal == nil && !s.public.Contains(key) {
		return nil, ErrKeyForbidden
	}

	return settingctl.Get(s.db, key)
}

// Upsert creates or overwrites a setting. The value may be empty but
// must be present; the handler distinguishes absent from empty.
func (s *Service) Upsert(key, value string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	return settingctl.Set(s.db, key, value)
}

// UpsertMany applies Upsert once per entry, independently. A failure
// partway does not roll back previously applied entries; there is no
// transaction spanning the batch.
func (s *Service) UpsertMany(values map[string]string) ([]models.Setting, error) {
	if values == nil {
		return nil, ErrBadBulkPayload
	}

	updated := make([]models.Setting, 0, len(values))

	for key, value := range values {
		row, err := s.Upsert(key, value)
		if err != nil {
			return updated, fmt.Errorf("failed to upsert %q: %w", key, err)
		}

		updated = append(updated, *row)
	}

	return updated, nil
}

// Update overwrites an existing setting and fails with
// ErrSettingNotFound when the key was never created.
func (s *Service) Update(key, value string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	return settingctl.UpdateByKey(s.db, key, value)
}

// Delete removes a setting unconditionally once it exists.
func (s *Service) Delete(key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	return settingctl.DeleteByKey(s.db, key)
}

// UploadImage sends the image to the object storage gateway and, only
// on gateway success, binds the returned durable URL to the setting.
// A gateway failure leaves no partial state behind.
func (s *Service) UploadImage(
	ctx context.Context,
	key, filename string,
	data []byte,
	contentType string,
) (*models.Setting, *storage.UploadResult, error) {
	if key == "" {
		return nil, nil, ErrKeyRequired
	}

	if len(data) == 0 {
		return nil, nil, ErrFileRequired
	}

	result, err := s.gateway.Upload(ctx, filename, data, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("image upload failed")

		if errors.Is(err, storage.ErrNotImage) {
			return nil, nil, err
		}

		return nil, nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	row, err := settingctl.Set(s.db, key, result.URL)
	if err != nil {
		return nil, nil, err
	}

	return row, result, nil
}
