package main

import (
	"fmt"
	"log"

	"kintai-backend/config"
	"kintai-backend/internal/model"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/usecase"

	"github.com/joho/godotenv"
)

// Seeds the initial superadmin account when the user table is empty.
// Credentials come from SEED_EMAIL, SEED_NAME and SEED_PASSWORD.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment variables.")
	}

	config.ConnectDB()
	users := repository.NewUserRepository(config.DB)

	count, err := users.CountAll()
	if err != nil {
		log.Fatalf("failed to inspect user table: %v", err)
	}
	if count > 0 {
		fmt.Println("Users already exist, nothing to seed.")
		return
	}

	email := config.GetEnv("SEED_EMAIL", "admin@example.com")
	name := config.GetEnv("SEED_NAME", "Administrator")
	password := config.GetEnv("SEED_PASSWORD", "")
	if password == "" {
		log.Fatal("SEED_PASSWORD must be set to seed the superadmin account")
	}
	if err := usecase.ValidatePassword(password); err != nil {
		log.Fatalf("SEED_PASSWORD rejected: %v", err)
	}

	hash, err := usecase.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := &model.User{
		Email:        email,
		Name:         name,
		Password:     hash,
		IsAdmin:      true,
		IsSuperadmin: true,
	}
	if err := users.Create(admin); err != nil {
		log.Fatalf("failed to create superadmin: %v", err)
	}

	fmt.Printf("Seeded superadmin %s (%s)\n", name, email)
}
