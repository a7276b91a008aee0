package routes

import (
	"kintai-backend/internal/handler"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAttendanceRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewAttendanceRepository(db)
	users := repository.NewUserRepository(db)
	hdl := handler.NewAttendanceHandler(repo, users)

	api := app.Group("/api/attendance", middleware.Auth)
	api.Post("/punch", hdl.Punch)
	api.Post("/punch/resolve", hdl.ResolvePunch)
	api.Get("/logs", hdl.Logs)
	api.Put("/logs/:date", hdl.UpdateLog)
}
