package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agenda-api/domain/dto"
	"agenda-api/domain/services"
	"agenda-api/pkg/logger"
	"agenda-api/pkg/utils"
)

type PersonaHandler struct {
	personaService services.PersonaService
}

func NewPersonaHandler(personaService services.PersonaService) *PersonaHandler {
	return &PersonaHandler{personaService: personaService}
}

// ListPersonas returns personas, optionally filtered by exact name
// GET /personas?nombre=
func (h *PersonaHandler) ListPersonas(c *fiber.Ctx) error {
	name := c.Query("nombre")

	personas, err := h.personaService.ListPersonas(c.Context(), name)
	if err != nil {
		return h.internalError(c, "list_failed", err)
	}

	return c.JSON(personas)
}

// GetPersona returns a single persona by email
// GET /persona?email=
func (h *PersonaHandler) GetPersona(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Email is required")
	}

	persona, err := h.personaService.GetPersonaByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrPersonaNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}
		return h.internalError(c, "get_failed", err)
	}

	return c.JSON(persona)
}

// CreatePersona creates a persona
// POST /personas
func (h *PersonaHandler) CreatePersona(c *fiber.Ctx) error {
	var req dto.CreatePersonaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, services.ErrMissingFields.Error())
	}

	persona, err := h.personaService.CreatePersona(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields),
			errors.Is(err, services.ErrEmailRegistered),
			errors.Is(err, services.ErrPhoneRegistered):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrFriendsNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrStoreInconsistent):
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error al crear la persona")
		default:
			return h.internalError(c, "create_failed", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{
		Message: "Persona creada exitosamente",
		Persona: persona,
	})
}

// UpdatePersona updates name, phone and friends of the persona matching the
// payload's email; the email itself is immutable
// PUT /persona
func (h *PersonaHandler) UpdatePersona(c *fiber.Ctx) error {
	var req dto.UpdatePersonaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Faltan datos")
	}

	persona, err := h.personaService.UpdatePersona(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Faltan datos")
		case errors.Is(err, services.ErrPhoneRegistered):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPersonaNotFound),
			errors.Is(err, services.ErrFriendsNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrStoreInconsistent):
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error al actualizar la persona")
		default:
			return h.internalError(c, "update_failed", err)
		}
	}

	return c.JSON(dto.MutationResponse{
		Message: "Persona actualizada exitosamente",
		Persona: persona,
	})
}

// DeletePersona deletes the persona matching the payload's email and pulls
// its id from every other persona's friend set
// DELETE /persona
func (h *PersonaHandler) DeletePersona(c *fiber.Ctx) error {
	var req dto.DeletePersonaRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Email es requerido")
	}

	if err := h.personaService.DeletePersona(c.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrPersonaNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}
		return h.internalError(c, "delete_failed", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Persona eliminada exitosamente",
	})
}

// internalError logs the real failure and answers with the generic message;
// store errors never reach the caller.
func (h *PersonaHandler) internalError(c *fiber.Ctx, action string, err error) error {
	logger.APIError(action, "Unexpected error handling request", err, map[string]interface{}{"path": c.Path(), "method": c.Method()})
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error interno del servidor")
}
