package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireJSON rejects requests whose body is not declared as application/json.
// Parameters such as charset are allowed, other json flavoured types are not.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentType := c.Get(fiber.HeaderContentType)
		mediaType, _, _ := strings.Cut(contentType, ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), fiber.MIMEApplicationJSON) {
			return fiber.NewError(
				fiber.StatusUnsupportedMediaType,
				"Content-Type must be application/json, got '"+contentType+"'",
			)
		}
		return c.Next()
	}
}
