package api

import (
	"errors"

	"github.com/example/cityshades/modules/auth"
	"github.com/example/cityshades/modules/catalog"
	"github.com/example/cityshades/modules/marketing"
	"github.com/example/cityshades/modules/order"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	errMethodNotAllowed = fiber.NewError(fiber.StatusMethodNotAllowed, "Method not allowed")
	errInvalidBody      = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	errAdminRequired    = fiber.NewError(fiber.StatusForbidden, "Admin access required")
)

// errorStatuses maps domain sentinels to HTTP statuses. Entries are checked
// with errors.Is, so wrapped errors resolve to their sentinel.
var errorStatuses = []struct {
	err    error
	status int
}{
	{catalog.ErrProductNotFound, fiber.StatusNotFound},
	{order.ErrOrderNotFound, fiber.StatusNotFound},

	{catalog.ErrInvalidProductID, fiber.StatusBadRequest},
	{catalog.ErrInvalidGender, fiber.StatusBadRequest},
	{catalog.ErrInvalidPrice, fiber.StatusBadRequest},
	{catalog.ErrInvalidStock, fiber.StatusBadRequest},
	{order.ErrInvalidOrder, fiber.StatusBadRequest},
	{marketing.ErrEmailRequired, fiber.StatusBadRequest},
	{marketing.ErrInvalidEmail, fiber.StatusBadRequest},
	{marketing.ErrAlreadySubscribed, fiber.StatusBadRequest},
	{marketing.ErrMissingFields, fiber.StatusBadRequest},
	{auth.ErrMissingCredentials, fiber.StatusBadRequest},

	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{auth.ErrInvalidToken, fiber.StatusUnauthorized},
	{auth.ErrExpiredToken, fiber.StatusUnauthorized},
	{auth.ErrUserNotFound, fiber.StatusUnauthorized},
}

// statusFor resolves the status and client message for err. Unknown errors
// are internal and their message is not exposed.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, err.Error()
		}
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// newErrorHandler renders every handler error as {"error": "..."}.
func newErrorHandler(logger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("Request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error())
		}
		return c.Status(status).JSON(ErrorResponse{Error: message})
	}
}
