package routes

import (
	"github.com/gofiber/fiber/v2"

	"agenda-api/interfaces/api/handlers"
)

// SetupRoutes wires all route groups. Persona routes live at the root to
// keep the original /personas and /persona paths.
func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	SetupHealthRoutes(app, h)
	SetupPersonaRoutes(app, h)
}
