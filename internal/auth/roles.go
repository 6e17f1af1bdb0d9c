package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// RequireAdmin ensures the principal may manage every complaint.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("login required")
		}
		if !principal.Account.CanManageComplaints() {
			return apperrors.NewForbidden("admin only")
		}
		return c.Next()
	}
}
