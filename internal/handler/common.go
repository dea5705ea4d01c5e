package handler

import (
	"bizlevel/internal/domain"
	"bizlevel/internal/middleware"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// identity returns the authenticated caller or an UNAUTHORIZED error.
func identity(c *fiber.Ctx) (domain.Identity, error) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return domain.Identity{}, domain.NewUnauthorizedError("Authentication required")
	}
	return id, nil
}

// bindAndValidate parses the JSON body into req and checks its validate tags.
func bindAndValidate(c *fiber.Ctx, v *validation.Validator, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return domain.NewInvalidInputError("Invalid request body format")
	}
	if errs := v.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	return nil
}
