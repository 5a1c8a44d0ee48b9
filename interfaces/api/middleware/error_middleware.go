package middleware

import (
	"github.com/gofiber/fiber/v2"

	"agenda-api/pkg/logger"
	"agenda-api/pkg/utils"
)

// ErrorHandler catches errors that escape the handlers (panics, routing
// errors, body limits). Anything without an explicit fiber status answers
// with the generic internal message; details only go to the log.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Error interno del servidor"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.APIError("error_handler", "Request error occurred", err, map[string]interface{}{"status_code": code, "path": c.Path(), "method": c.Method()})

		return utils.ErrorResponse(c, code, message)
	}
}
