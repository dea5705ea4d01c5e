package middleware

import (
	"strings"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"
	"bizlevel/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer"
	IdentityKey         = "identity" // Key for storing the caller in fiber.Ctx locals
)

// Protected requires a valid bearer token. The caller's domain.Identity is
// stored in the locals and in the request's user context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		// The server trims trailing whitespace, so "Bearer " arrives as "Bearer".
		scheme, tokenString, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
		if !strings.EqualFold(scheme, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		identity, err := authService.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(IdentityKey, *identity)
		c.SetUserContext(domain.ContextWithIdentity(c.UserContext(), *identity))
		return c.Next()
	}
}

// AdminOnly must run after Protected. It admits callers whose profile role is admin.
func AdminOnly(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return domain.NewUnauthorizedError("Authentication required")
		}
		isAdmin, err := authService.IsAdmin(c.UserContext(), identity.UserID)
		if err != nil {
			return err
		}
		if !isAdmin {
			logger.Get().Warn("Admin access denied", zap.String("userID", identity.UserID), zap.String("path", c.Path()))
			return domain.NewForbiddenError("Admin role required")
		}
		return c.Next()
	}
}

// GetIdentity returns the caller stored by Protected.
func GetIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(domain.Identity)
	return identity, ok && identity.UserID != ""
}
