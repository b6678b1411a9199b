package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/service/auth"
)

// LocalClaims is where AuthRequired stores the verified token claims.
const LocalClaims = "auth_claims"

// AuthRequired validates a Bearer access token and its server-side
// session. On success the claims land in c.Locals(LocalClaims).
func AuthRequired(svc auth.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := svc.Authenticate(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}
