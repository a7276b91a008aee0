package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/internal/audit"
	"kintai-backend/internal/mailer"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/usecase"
)

// UserHandler is the admin-facing user management surface.
type UserHandler struct {
	users repository.UserRepository
	mail  *mailer.Mailer
}

func NewUserHandler(users repository.UserRepository, mail *mailer.Mailer) *UserHandler {
	return &UserHandler{users: users, mail: mail}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list users"})
	}
	managed, err := h.users.GetManagedUsers(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list users"})
	}
	managedIDs := make([]uint, 0, len(managed))
	for _, u := range managed {
		managedIDs = append(managedIDs, u.ID)
	}
	return c.JSON(fiber.Map{"users": users, "managed_user_ids": managedIDs})
}

type CreateUserRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Password          string `json:"password"`
	IsAdmin           bool   `json:"is_admin"`
	IsSuperadmin      bool   `json:"is_superadmin"`
	OvertimeThreshold string `json:"overtime_threshold"`
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := usecase.ValidateEmail(req.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := usecase.ValidateName(req.Name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := usecase.ValidatePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	threshold := req.OvertimeThreshold
	if threshold == "" {
		threshold = reconcile.DefaultOvertimeThreshold
	}
	if !reconcile.IsValidTime(threshold) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "overtime_threshold must be HH:MM"})
	}
	if existing, _ := h.users.GetByEmail(req.Email); existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "this email address is already registered"})
	}

	hash, err := usecase.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}
	user := &model.User{
		Email:             req.Email,
		Name:              req.Name,
		Password:          hash,
		IsAdmin:           req.IsAdmin,
		IsSuperadmin:      req.IsSuperadmin && middleware.IsSuperadmin(c),
		OvertimeThreshold: threshold,
	}
	if err := h.users.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	// A regular admin automatically manages whoever they create.
	if !middleware.IsSuperadmin(c) {
		if err := h.users.AddManagedUser(adminID, user.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to assign managed user"})
		}
	}

	// Registration mail is best effort.
	if h.mail != nil {
		_ = h.mail.SendRegistration(user)
	}

	audit.Log(c, "user_created", adminID, middleware.UserName(c), "Created user: "+user.Name)
	return c.Status(fiber.StatusCreated).JSON(user)
}

type UpdateUserRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	IsAdmin           *bool  `json:"is_admin"`
	IsSuperadmin      *bool  `json:"is_superadmin"`
	OvertimeThreshold string `json:"overtime_threshold"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	user, err := h.users.GetByID(uint(userID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if ok, err := h.mayManage(c, user.ID); err != nil || !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you may not edit this user"})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := usecase.ValidateEmail(email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if other, _ := h.users.GetByEmail(email); other != nil && other.ID != user.ID {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "this email address is already registered"})
		}
		user.Email = email
	}
	if req.Name != "" {
		if err := usecase.ValidateName(req.Name); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsSuperadmin != nil && middleware.IsSuperadmin(c) {
		user.IsSuperadmin = *req.IsSuperadmin
	}
	if req.OvertimeThreshold != "" {
		if !reconcile.IsValidTime(req.OvertimeThreshold) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "overtime_threshold must be HH:MM"})
		}
		user.OvertimeThreshold = req.OvertimeThreshold
	}

	if err := h.users.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
	}
	audit.Log(c, "user_updated", adminID, middleware.UserName(c), "Updated user: "+user.Name)
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	if uint(userID) == adminID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "you cannot delete your own account"})
	}
	user, err := h.users.GetByID(uint(userID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if ok, err := h.mayManage(c, user.ID); err != nil || !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you may not delete this user"})
	}
	if user.IsSuperadmin && !middleware.IsSuperadmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you may not delete this user"})
	}

	if err := h.users.Delete(user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete user"})
	}
	audit.Log(c, "user_deleted", adminID, middleware.UserName(c), "Deleted user: "+user.Name)
	return c.JSON(fiber.Map{"message": "user deleted"})
}

type ManagedUsersRequest struct {
	UserIDs []uint `json:"user_ids"`
}

// SetManaged replaces the caller's managed-user assignment with the given
// set.
func (h *UserHandler) SetManaged(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	var req ManagedUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	current, err := h.users.GetManagedUsers(adminID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update managed users"})
	}

	wanted := make(map[uint]bool, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if id == adminID {
			continue
		}
		wanted[id] = true
	}
	for _, u := range current {
		if !wanted[u.ID] {
			if err := h.users.RemoveManagedUser(adminID, u.ID); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update managed users"})
			}
		}
		delete(wanted, u.ID)
	}
	for id := range wanted {
		if _, err := h.users.GetByID(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("user %d not found", id)})
		}
		if err := h.users.AddManagedUser(adminID, id); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update managed users"})
		}
	}

	audit.Log(c, "managed_users_updated", adminID, middleware.UserName(c), "")
	return c.JSON(fiber.Map{"message": "managed users updated"})
}

// mayManage implements the admin access rule: the superadmin touches anyone,
// a regular admin only themselves and their managed users.
func (h *UserHandler) mayManage(c *fiber.Ctx, userID uint) (bool, error) {
	if middleware.IsSuperadmin(c) {
		return true, nil
	}
	adminID := middleware.UserID(c)
	if adminID == userID {
		return true, nil
	}
	return h.users.IsManagedBy(adminID, userID)
}
