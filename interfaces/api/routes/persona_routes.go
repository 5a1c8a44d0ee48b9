package routes

import (
	"github.com/gofiber/fiber/v2"

	"agenda-api/interfaces/api/handlers"
)

func SetupPersonaRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/personas", h.Persona.ListPersonas)
	app.Post("/personas", h.Persona.CreatePersona)

	app.Get("/persona", h.Persona.GetPersona)
	app.Put("/persona", h.Persona.UpdatePersona)
	app.Delete("/persona", h.Persona.DeletePersona)
}
