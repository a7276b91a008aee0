package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/internal/audit"
	"kintai-backend/internal/mailer"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/model"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/usecase"
)

// MailSettingsHandler exposes the SMTP configuration to the superadmin.
type MailSettingsHandler struct {
	settings repository.MailSettingsRepository
	mail     *mailer.Mailer
}

func NewMailSettingsHandler(settings repository.MailSettingsRepository, mail *mailer.Mailer) *MailSettingsHandler {
	return &MailSettingsHandler{settings: settings, mail: mail}
}

func (h *MailSettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load mail settings"})
	}
	if settings == nil {
		settings = &model.MailSettings{Port: 587, UseTLS: true}
	}
	return c.JSON(fiber.Map{
		"settings":     settings,
		"has_password": settings.Password != "",
	})
}

type UpdateMailSettingsRequest struct {
	Server          string `json:"server"`
	Port            int    `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	UseTLS          *bool  `json:"use_tls"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
}

func (h *MailSettingsHandler) Update(c *fiber.Ctx) error {
	var req UpdateMailSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Server) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "server is required"})
	}
	if req.Port < 1 || req.Port > 65535 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "port must be between 1 and 65535"})
	}

	settings, err := h.settings.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load mail settings"})
	}
	if settings == nil {
		settings = &model.MailSettings{}
	}
	settings.Server = strings.TrimSpace(req.Server)
	settings.Port = req.Port
	settings.Username = strings.TrimSpace(req.Username)
	if req.Password != "" {
		// A blank password keeps the stored one.
		settings.Password = req.Password
	}
	if req.UseTLS != nil {
		settings.UseTLS = *req.UseTLS
	}
	settings.SubjectTemplate = req.SubjectTemplate
	settings.BodyTemplate = req.BodyTemplate

	if err := h.settings.Save(settings); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save mail settings"})
	}
	audit.Log(c, "mail_settings_updated", middleware.UserID(c), middleware.UserName(c), "")
	return c.JSON(fiber.Map{"message": "mail settings saved"})
}

type TestMailRequest struct {
	To string `json:"to"`
}

func (h *MailSettingsHandler) SendTest(c *fiber.Ctx) error {
	var req TestMailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.To = strings.ToLower(strings.TrimSpace(req.To))
	if err := usecase.ValidateEmail(req.To); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.mail.SendTest(req.To); err != nil {
		if err == mailer.ErrNotConfigured {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mail settings are not configured"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to send test mail: " + err.Error()})
	}
	audit.Log(c, "mail_test_sent", middleware.UserID(c), middleware.UserName(c), "To: "+req.To)
	return c.JSON(fiber.Map{"message": "test mail sent"})
}
