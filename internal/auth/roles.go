package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/authz"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

// RequireAction rejects the request unless the principal's role grants
// the given capability. Must run after Middleware.
func RequireAction(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := Principal(c)
		if err != nil {
			return err
		}
		if !authz.Can(user.Role, action) {
			return apperrors.NewForbidden("role does not permit this operation")
		}
		return c.Next()
	}
}
