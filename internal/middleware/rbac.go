package middleware

import (
	"go-medidiagnose/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireStaff permits doctors, staff and administrators. The decision is
// made purely on the token flags; they reflect the persisted user at
// issuance time and are not re-checked until the next login.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !claims.IsSuperuser && !claims.IsStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: staff access required",
			})
		}

		return c.Next()
	}
}

// RequireAdmin permits administrators only.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !claims.IsSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: admin access required",
			})
		}

		return c.Next()
	}
}
