package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"kintai-backend/config"
)

// Auth validates the bearer token and stashes the principal in Locals for
// the handlers: user_id (float64), user_name, is_admin, is_superadmin.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return config.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	claims := token.Claims.(jwt.MapClaims)
	c.Locals("user_id", claims["user_id"])
	c.Locals("user_name", claims["user_name"])
	c.Locals("is_admin", claims["is_admin"])
	c.Locals("is_superadmin", claims["is_superadmin"])

	return c.Next()
}

// UserID reads the authenticated user's id out of Locals.
func UserID(c *fiber.Ctx) uint {
	if v, ok := c.Locals("user_id").(float64); ok {
		return uint(v)
	}
	return 0
}

// UserName reads the authenticated user's display name out of Locals.
func UserName(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_name").(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the principal has (super)admin rights.
func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	return admin || IsSuperadmin(c)
}

// IsSuperadmin reports whether the principal is the superadmin.
func IsSuperadmin(c *fiber.Ctx) bool {
	super, _ := c.Locals("is_superadmin").(bool)
	return super
}
