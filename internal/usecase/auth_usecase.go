package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"kintai-backend/config"
	"kintai-backend/internal/model"
	"kintai-backend/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthUsecase struct {
	users repository.UserRepository
}

func NewAuthUsecase(users repository.UserRepository) *AuthUsecase {
	return &AuthUsecase{users: users}
}

// Login checks the credentials and returns a signed session token.
func (u *AuthUsecase) Login(email, password string) (string, *model.User, error) {
	user, err := u.users.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"user_id":       user.ID,
		"user_name":     user.Name,
		"is_admin":      user.IsAdmin,
		"is_superadmin": user.IsSuperadmin,
		"exp":           time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (u *AuthUsecase) ChangePassword(userID uint, current, next string) error {
	user, err := u.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return u.users.Update(user)
}

// HashPassword is used by user provisioning (admin create, seeder).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
