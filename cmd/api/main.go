package main

import (
	"fmt"

	"kintai-backend/config"
	"kintai-backend/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file found, using system environment variables.")
	}

	config.ConnectDB()

	app := fiber.New(fiber.Config{
		// CSV imports are capped at 10 MB.
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAuthRoutes(app, config.DB)
	routes.SetupAttendanceRoutes(app, config.DB)
	routes.SetupTimesheetRoutes(app, config.DB)
	routes.SetupAdminRoutes(app, config.DB)

	port := config.GetEnv("PORT", "3000")
	fmt.Println("Server listening on port :" + port)
	app.Listen(":" + port)
}
