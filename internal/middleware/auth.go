package middleware

import (
	"strings"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// JWT rejects requests without a valid bearer token and stores the caller's
// identity in the request locals.
func JWT(tokens TokenVerifier, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, "missing authorization")
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			log.Debugw("jwt rejected", "error", err, "path", c.Path())
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the identity JWT stored for this request.
func IdentityFrom(c *fiber.Ctx) (domain.Identity, bool) {
	id, ok := c.Locals(identityKey).(domain.Identity)
	return id, ok
}
