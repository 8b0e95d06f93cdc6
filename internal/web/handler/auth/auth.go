// Package auth exposes login, token verification, logout, password
// rotation and account creation over HTTP.
package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	authmw "github.com/sitecms/sitecms/internal/auth"
	"github.com/sitecms/sitecms/internal/config"
	userctl "github.com/sitecms/sitecms/internal/db/controller/user"
	"github.com/sitecms/sitecms/internal/token"
	"github.com/sitecms/sitecms/internal/web/handler"
)

const (
	// Path is the base path of the auth routes.
	Path = "/auth"

	// TokenCookie is the cookie mirroring the bearer token for browser
	// clients. The Authorization header stays the canonical transport.
	TokenCookie = "token"
)

// Service is the auth handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the auth handler.
var Handler = Service{}

var validate = validator.New()

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// Init initializes the auth handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	required := authmw.Required(cfg.Auth.JWTSecret)

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.Login)
		router.Get("/verify", required, s.Verify)
		router.Post("/logout", s.Logout)
		router.Put("/password", required, s.Password)
		router.Post("/register", required, s.Register)
	})

	return nil
}

func (s *Service) tokenTTL() time.Duration {
	if s.cfg.Auth.TokenTTLDays <= 0 {
		return token.DefaultTTL
	}

	return time.Duration(s.cfg.Auth.TokenTTLDays) * 24 * time.Hour
}

// Login authenticates by email and password and issues a bearer token.
func (s *Service) Login(c *fiber.Ctx) error {
	req := new(loginRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := userctl.Authenticate(s.db, req.Email, req.Password)

	switch {
	case errors.Is(err, userctl.ErrUserNotFound), errors.Is(err, userctl.ErrInvalidPassword):
		return handler.JSONError(c, fiber.StatusUnauthorized, "Invalid email or password")
	case err != nil:
		log.Error().Err(err).Msg("login failed")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Login failed")
	}

	principal := token.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}

	ttl := s.tokenTTL()

	signed, err := token.Issue(principal, s.cfg.Auth.JWTSecret, ttl)
	if err != nil {
		log.Error().Err(err).Msg("token issue failed")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Login failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    signed,
		MaxAge:   int(ttl.Seconds()),
		Secure:   !s.cfg.DevMode,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{
		"token": signed,
		"user":  principal,
	})
}

// Verify confirms the caller's token is still valid.
func (s *Service) Verify(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"valid": true,
		"user":  authmw.PrincipalFrom(c),
	})
}

// Logout acknowledges the logout and clears the token cookie. Tokens
// are stateless; nothing is invalidated server side.
func (s *Service) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    "",
		MaxAge:   -1,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Password rotates the caller's password after checking the current one.
func (s *Service) Password(c *fiber.Ctx) error {
	req := new(passwordRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.JSONError(
			c,
			fiber.StatusBadRequest,
			"Current password and a new password of at least 8 characters are required",
		)
	}

	principal := authmw.PrincipalFrom(c)

	err := userctl.ChangePassword(s.db, principal.ID, req.CurrentPassword, req.NewPassword)

	switch {
	case errors.Is(err, userctl.ErrInvalidPassword):
		return handler.JSONError(c, fiber.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, userctl.ErrUserNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "User not found")
	case err != nil:
		log.Error().Err(err).Uint64("user_id", principal.ID).Msg("password change failed")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to change password")
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}

// Register creates an account. Only an authenticated admin may add one;
// the first account comes from the seeder.
func (s *Service) Register(c *fiber.Ctx) error {
	req := new(registerRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.JSONError(
			c,
			fiber.StatusBadRequest,
			"Email, name and a password of at least 8 characters are required",
		)
	}

	user, err := userctl.Create(s.db, req.Email, req.Password, req.Name)

	switch {
	case errors.Is(err, userctl.ErrEmailExists):
		return handler.JSONError(c, fiber.StatusBadRequest, "Email already registered")
	case err != nil:
		log.Error().Err(err).Msg("account creation failed")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create account")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": token.Principal{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	})
}
