package presenters

import (
	"github.com/gofiber/fiber/v2"
)

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	resp := fiber.Map{
		"status":  "error",
		"message": message,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.Status(code).JSON(resp)
}

// ErrorDetailResponse is ErrorResponse with extra context fields, used where
// a failure carries data the client should display (required vs current
// coins, required vs paid amount).
func ErrorDetailResponse(c *fiber.Ctx, code int, message string, err error, details fiber.Map) error {
	resp := fiber.Map{
		"status":  "error",
		"message": message,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	for k, v := range details {
		resp[k] = v
	}
	return c.Status(code).JSON(resp)
}
