package middleware

import "github.com/gofiber/fiber/v2"

// AdminOnly rejects requests from principals without admin rights. Must run
// after Auth.
func AdminOnly(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "administrator rights required"})
	}
	return c.Next()
}

// SuperadminOnly rejects everyone but the superadmin.
func SuperadminOnly(c *fiber.Ctx) error {
	if !IsSuperadmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "superadmin rights required"})
	}
	return c.Next()
}
