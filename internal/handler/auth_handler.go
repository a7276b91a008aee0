package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/internal/audit"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/usecase"
)

type AuthHandler struct {
	auth  *usecase.AuthUsecase
	users repository.UserRepository
}

func NewAuthHandler(auth *usecase.AuthUsecase, users repository.UserRepository) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	token, user, err := h.auth.Login(email, req.Password)
	if err != nil {
		audit.Log(c, "login_failed", 0, email, "")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	audit.Log(c, "login", user.ID, user.Name, "")

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.GetByID(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.auth.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	audit.Log(c, "password_changed", userID, middleware.UserName(c), "")
	return c.JSON(fiber.Map{"message": "password updated"})
}
