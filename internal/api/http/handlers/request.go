package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-service/internal/api/dto"
	"github.com/spec-kit/garage-service/internal/auth"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// bindJSON decodes and validates a request body.
func bindJSON(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	return p, nil
}

func data(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

func list(c *fiber.Ctx, items interface{}, count int) error {
	return c.JSON(fiber.Map{"count": count, "data": items})
}
