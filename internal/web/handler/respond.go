package handler

import "github.com/gofiber/fiber/v2"

// JSONError writes the error envelope shared by every handler.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
