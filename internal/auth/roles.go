package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-service/internal/domain"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// RequireRole admits the caller only when its stored role is one of allowed.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("this operation is not available to your account type")
		}
		return c.Next()
	}
}

// RequireCustomer is RequireRole(domain.RoleCustomer).
func RequireCustomer() fiber.Handler {
	return RequireRole(domain.RoleCustomer)
}

// RequireGarage is RequireRole(domain.RoleGarage).
func RequireGarage() fiber.Handler {
	return RequireRole(domain.RoleGarage)
}
