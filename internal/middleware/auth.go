package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// Context keys set by Authenticate.
const (
	ActorKey   = "actor"
	TokenIDKey = "token_id"
)

// Authenticate validates the bearer credential through the auth service
// and binds the resulting actor to the request. Validation checks the
// signature and the revocation state of the token, not just its claims.
func Authenticate(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		actor, tokenID, err := auth.Validate(c.Context(), tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid or revoked token")
		}

		c.Locals(ActorKey, actor)
		c.Locals(TokenIDKey, tokenID)
		c.Locals("user_id", actor.ID)
		c.Locals("user_role", string(actor.Role))

		return c.Next()
	}
}
