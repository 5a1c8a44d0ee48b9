package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"agenda-api/pkg/logger"
)

// LoggerMiddleware logs every request with its status and duration
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.API("request", "Handled request", map[string]interface{}{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
			"ip":       c.IP(),
		})

		return err
	}
}
