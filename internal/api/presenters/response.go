package presenters

import (
	"Lote-Tracker/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, status int, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes {"error": message}. The underlying error is only
// exposed as "details" outside production.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	return ErrorResponseWithFields(c, status, message, err, nil)
}

// ErrorResponseWithFields is ErrorResponse plus operation specific fields
// such as campos_faltantes or id_conflicto.
func ErrorResponseWithFields(c *fiber.Ctx, status int, message string, err error, fields fiber.Map) error {
	body := fiber.Map{
		"success": false,
		"error":   message,
	}
	for k, v := range fields {
		body[k] = v
	}
	if err != nil && !utils.IsProduction() {
		body["details"] = err.Error()
	}
	return c.Status(status).JSON(body)
}
