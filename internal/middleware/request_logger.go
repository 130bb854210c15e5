package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"productsvc/internal/logger"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestLogger attaches a request scoped child of base to the user context
// and logs every finished request. Errors from the rest of the chain are
// handed to the app's ErrorHandler here, so the logged status is final.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		l := base.With().
			Str(logger.KeyRequestID, requestID).
			Str(logger.KeyRequestMethod, c.Method()).
			Str(logger.KeyRequestPath, c.Path()).
			Str(logger.KeyRequestIP, c.IP()).
			Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		l.Info().
			Str(logger.KeyTag, "middleware RequestLogger").
			Int(logger.KeyStatus, c.Response().StatusCode()).
			Dur(logger.KeyLatency, time.Since(start)).
			Msg("request completed")
		return nil
	}
}
