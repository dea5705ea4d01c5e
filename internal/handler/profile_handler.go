package handler

import (
	"bizlevel/internal/domain"
	"bizlevel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the caller's application profile.
type ProfileHandler struct {
	auth service.AuthService
}

func NewProfileHandler(auth service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// GetMyProfile handles GET /api/profile. The profile is created on first call.
func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	if err := h.auth.EnsureProfile(ctx, id); err != nil {
		return err
	}
	profile, err := h.auth.GetProfile(ctx, id.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return domain.NewNotFoundError("Profile not found")
	}
	return c.JSON(profile)
}
