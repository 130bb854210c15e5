package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"productsvc/internal/logger"
	"productsvc/internal/models"
	"productsvc/internal/services"
)

var errorLabels = map[int]string{
	fiber.StatusBadRequest:           "Bad Request",
	fiber.StatusNotFound:             "Not Found",
	fiber.StatusMethodNotAllowed:     "Method not Allowed",
	fiber.StatusConflict:             "Conflict",
	fiber.StatusUnsupportedMediaType: "Unsupported media type",
	fiber.StatusInternalServerError:  "Internal Server Error",
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusFor maps an error returned by a handler to its HTTP status.
func StatusFor(err error) int {
	var validationErr *models.ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr), errors.Is(err, services.ErrInvalidQuery):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrProductSoldOut):
		return fiber.StatusConflict
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber error handler. It writes an ErrorResponse and
// logs the failure on the request logger.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusFor(err)

	label, ok := errorLabels[status]
	if !ok {
		label = utils.StatusMessage(status)
	}

	message := err.Error()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message = fiberErr.Message
	}

	l := zerolog.Ctx(c.UserContext())
	event := l.Warn()
	if status >= fiber.StatusInternalServerError {
		event = l.Error()
	}
	event.
		Str(logger.KeyTag, "handlers ErrorHandler").
		Int(logger.KeyStatus, status).
		Err(err).
		Msg(label)

	return c.Status(status).JSON(ErrorResponse{
		Status:  status,
		Error:   label,
		Message: message,
	})
}
