package routes

import (
	"kintai-backend/internal/handler"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	users := repository.NewUserRepository(db)
	hdl := handler.NewAuthHandler(usecase.NewAuthUsecase(users), users)

	// Login attempts are rate limited per IP.
	limiter := middleware.NewRateLimiter(1, 5)
	app.Post("/api/login", limiter.Handler, hdl.Login)

	api := app.Group("/api", middleware.Auth)
	api.Get("/me", hdl.Me)
	api.Put("/me/password", hdl.ChangePassword)
}
