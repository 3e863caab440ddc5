package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Middleware parses the bearer token, loads the user and stores it as the
// request principal. Inactive users are rejected even with a valid token.
func Middleware(tokens *TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return apperrors.NewUnauthorized("missing bearer token")
		}

		claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return apperrors.NewUnauthorized("invalid or expired token")
		}

		user, err := users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			return apperrors.NewUnauthorized("unknown user")
		}
		if !user.Active {
			return apperrors.NewUnauthorized("account is deactivated")
		}

		c.Locals(principalKey, user)
		return c.Next()
	}
}

// Principal returns the authenticated user stored by Middleware.
func Principal(c *fiber.Ctx) (*domain.User, error) {
	user, ok := c.Locals(principalKey).(*domain.User)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	return user, nil
}
