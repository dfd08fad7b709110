package auth

import (
	"github.com/gofiber/fiber/v2"

	"waterbilling_backend/internals/constants"
)

// RequireSuperuser dipasang setelah SessionMiddleware.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if su, _ := c.Locals(constants.LocIsSuperuser).(bool); !su {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorSuperuser("staff management"))
		}
		return c.Next()
	}
}
