// Package auth provides the bearer token middleware gating the API.
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sitecms/sitecms/internal/token"
)

const (
	bearerPrefix = "Bearer "

	// principalLocalsKey is the fiber.Locals key the verified principal
	// is stored under.
	principalLocalsKey = "principal"
)

// Required creates fiber middleware that rejects any request without a
// valid bearer token. The principal is attached to the request context
// on success.
func Required(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No authorization header provided",
			})
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format. Use Bearer token",
			})
		}

		principal, err := token.Verify(strings.TrimPrefix(header, bearerPrefix), secret)
		if err != nil {
			// expired vs malformed differ in message only, both reject
			if errors.Is(err, token.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token expired",
				})
			}

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(principalLocalsKey, principal)

		return c.Next()
	}
}

// Optional creates fiber middleware that attaches a principal when a
// valid bearer token is present and silently proceeds anonymously on any
// failure. Read endpoints use it to vary responses by viewer identity.
func Optional(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return c.Next()
		}

		principal, err := token.Verify(strings.TrimPrefix(header, bearerPrefix), secret)
		if err != nil {
			return c.Next()
		}

		c.Locals(principalLocalsKey, principal)

		return c.Next()
	}
}

// PrincipalFrom returns the principal attached by the middleware, or nil
// for anonymous requests.
func PrincipalFrom(c *fiber.Ctx) *token.Principal {
	principal, ok := c.Locals(principalLocalsKey).(*token.Principal)
	if !ok {
		return nil
	}

	return principal
}
