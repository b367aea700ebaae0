package api

import (
	"errors"
	"strings"

	domain "github.com/example/cityshades/domain/user"
	"github.com/example/cityshades/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates bearer tokens.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format. Use: Bearer <token>")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token is required")
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expired"
			}
			return fiber.NewError(fiber.StatusUnauthorized, msg)
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin role.
// It must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
		}
		if !claims.IsAdmin() {
			return errAdminRequired
		}
		return c.Next()
	}
}

func claimsFrom(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok && claims != nil
}
