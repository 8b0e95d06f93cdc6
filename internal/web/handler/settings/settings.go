// Package settings exposes the settings store over HTTP. Reads are
// viewer scoped; all writes require a bearer token.
package settings

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/sitecms/sitecms/internal/auth"
	"github.com/sitecms/sitecms/internal/config"
	settingssvc "github.com/sitecms/sitecms/internal/settings"
	"github.com/sitecms/sitecms/internal/storage"
	"github.com/sitecms/sitecms/internal/web/handler"
)

const (
	// Path is the base path of the settings routes.
	Path = "/settings"

	// ImageFormField is the multipart field carrying the image payload.
	ImageFormField = "image"

	// KeyFormField is the multipart field naming the target setting.
	KeyFormField = "settingKey"
)

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	svc *settingssvc.Service
}

// Handler is the settings handler.
var Handler = Service{}

var validate = validator.New()

type upsertRequest struct {
	Key   string  `json:"key" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

type updateRequest struct {
	Value *string `json:"value" validate:"required"`
}

type bulkRequest struct {
	Settings map[string]string `json:"settings"`
}

// Init initializes the settings handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *settingssvc.Service) error {
	if app == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.svc = svc

	required := auth.Required(cfg.Auth.JWTSecret)
	optional := auth.Optional(cfg.Auth.JWTSecret)

	// register routes; literal segments before the :key parameter
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, optional, s.List)
		router.Post(handler.RouterRootPath, required, s.Upsert)
		router.Put("/bulk", required, s.BulkUpsert)
		router.Post("/upload-image", required, s.UploadImage)
		router.Get("/:key", optional, s.GetOne)
		router.Put("/:key", required, s.Update)
		router.Delete("/:key", required, s.Delete)
	})

	return nil
}

// List returns every setting the viewer may read.
func (s *Service) List(c *fiber.Ctx) error {
	values, rows, err := s.svc.List(auth.PrincipalFrom(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch settings")
	}

	return c.JSON(fiber.Map{
		"settings": values,
		"raw":      rows,
	})
}

// GetOne returns a single setting the viewer may read.
func (s *Service) GetOne(c *fiber.Ctx) error {
	row, err := s.svc.GetOne(auth.PrincipalFrom(c), c.Params("key"))

	switch {
	case errors.Is(err, settingssvc.ErrKeyForbidden):
		return handler.JSONError(c, fiber.StatusForbidden, "Access denied")
	case errors.Is(err, settingssvc.ErrSettingNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Setting not found")
	case err != nil:
		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to fetch setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch setting")
	}

	return c.JSON(row)
}

// Upsert creates or overwrites a setting. An empty value is valid; an
// absent one is not.
func (s *Service) Upsert(c *fiber.Ctx) error {
	req := new(upsertRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Key and value are required")
	}

	row, err := s.svc.Upsert(req.Key, *req.Value)
	if err != nil {
		log.Error().Err(err).Str("key", req.Key).Msg("failed to upsert setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to save setting")
	}

	return c.JSON(row)
}

// BulkUpsert applies a map of settings, each entry independently.
func (s *Service) BulkUpsert(c *fiber.Ctx) error {
	req := new(bulkRequest)

	if err := c.BodyParser(req); err != nil || req.Settings == nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Settings object is required")
	}

	updated, err := s.svc.UpsertMany(req.Settings)
	if err != nil {
		log.Error().Err(err).Msg("bulk upsert failed partway")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to save settings")
	}

	return c.JSON(fiber.Map{
		"settings": updated,
		"count":    len(updated),
	})
}

// Update overwrites a setting that must already exist.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(updateRequest)

	if err := c.BodyParser(req); err != nil || req.Value == nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Value is required")
	}

	row, err := s.svc.Update(c.Params("key"), *req.Value)

	switch {
	case errors.Is(err, settingssvc.ErrSettingNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Setting not found")
	case err != nil:
		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to update setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to update setting")
	}

	return c.JSON(row)
}

// Delete removes a setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	err := s.svc.Delete(c.Params("key"))

	switch {
	case errors.Is(err, settingssvc.ErrSettingNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Setting not found")
	case err != nil:
		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to delete setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete setting")
	}

	return c.JSON(fiber.Map{"message": "Setting deleted"})
}

// UploadImage stores an uploaded image and binds its durable URL to a
// setting. The setting row is written only after the upload succeeds.
func (s *Service) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(ImageFormField)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Image file is required")
	}

	key := c.FormValue(KeyFormField)
	if key == "" {
		return handler.JSONError(c, fiber.StatusBadRequest, "Setting key is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Image file is required")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Image file is required")
	}

	row, result, err := s.svc.UploadImage(
		c.UserContext(),
		key,
		fileHeader.Filename,
		data,
		fileHeader.Header.Get(fiber.HeaderContentType),
	)

	switch {
	case errors.Is(err, storage.ErrNotImage):
		return handler.JSONError(c, fiber.StatusBadRequest, "File must be an image")
	case errors.Is(err, settingssvc.ErrFileRequired):
		return handler.JSONError(c, fiber.StatusBadRequest, "Image file is required")
	case errors.Is(err, settingssvc.ErrUpload):
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to upload image")
	case err != nil:
		log.Error().Err(err).Str("key", key).Msg("failed to save uploaded image setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to save setting")
	}

	return c.JSON(fiber.Map{
		"url":          result.URL,
		"thumbnailUrl": result.ThumbnailURL,
		"setting":      row,
	})
}
