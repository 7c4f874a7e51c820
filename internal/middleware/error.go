package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/authd/internal/apperr"
)

// ErrorHandler is the app-level Fiber error handler. Every error funnels
// through here and leaves as a uniform {success:false, message} body; internal
// detail never reaches the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return c.Status(domainErr.Status).JSON(fiber.Map{
			"success": false,
			"message": domainErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	log.Printf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}
