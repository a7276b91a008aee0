package routes

import (
	"time"

	"kintai-backend/internal/handler"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTimesheetRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewAttendanceRepository(db)
	users := repository.NewUserRepository(db)
	staging := handler.NewImportStaging(30 * time.Minute)
	hdl := handler.NewTimesheetHandler(repo, users, staging)

	api := app.Group("/api/timesheet", middleware.Auth)
	api.Get("/export", hdl.Export)
	api.Post("/import", hdl.Import)
	api.Post("/import/resolve", hdl.Resolve)
}
