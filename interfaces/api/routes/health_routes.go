package routes

import (
	"github.com/gofiber/fiber/v2"

	"agenda-api/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.Health.Health)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Agenda API",
			"health":  "/health",
		})
	})
}
