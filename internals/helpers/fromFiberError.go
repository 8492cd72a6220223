package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError is the app-wide fiber.ErrorHandler: *fiber.Error keeps its
// code, anything else becomes a 500 without leaking the message.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "")
}
