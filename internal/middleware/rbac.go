package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// RequireOperation rejects the request unless the authenticated role passes
// the permission gate for the operation. Services re-check the same gate;
// this middleware only lets routes fail early with a clean 403.
func RequireOperation(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := models.Role(normalizeRoleValue(c.Locals("user_role")))
		if !access.Allowed(role, op) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireRole ensures that the authenticated user holds one of the allowed
// roles. Used where a route is role-bound rather than operation-bound.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(string(role)))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals("user_role"))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case models.Role:
		return strings.ToLower(strings.TrimSpace(string(v)))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		return ""
	}
}
