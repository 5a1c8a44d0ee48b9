package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes the API error shape: {"error": message}
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
