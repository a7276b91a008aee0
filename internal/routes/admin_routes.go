package routes

import (
	"kintai-backend/internal/handler"
	"kintai-backend/internal/mailer"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB) {
	users := repository.NewUserRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	settings := repository.NewMailSettingsRepository(db)
	mail := mailer.New(settings)

	userHdl := handler.NewUserHandler(users, mail)
	exportHdl := handler.NewExportHandler(attendance, users)
	mailHdl := handler.NewMailSettingsHandler(settings, mail)

	admin := app.Group("/api/admin", middleware.Auth, middleware.AdminOnly)
	admin.Get("/users", userHdl.List)
	admin.Post("/users", userHdl.Create)
	admin.Put("/users/:id", userHdl.Update)
	admin.Delete("/users/:id", userHdl.Delete)
	admin.Put("/managed-users", userHdl.SetManaged)
	admin.Get("/users/:id/timesheet", exportHdl.ExportUser)
	admin.Get("/export/bulk", exportHdl.ExportBulk)

	super := app.Group("/api/admin", middleware.Auth, middleware.SuperadminOnly)
	super.Get("/audit-log", exportHdl.AuditLog)
	super.Get("/mail-settings", mailHdl.Get)
	super.Put("/mail-settings", mailHdl.Update)
	super.Post("/mail-settings/test", mailHdl.SendTest)
}
