package repository

import (
	"kintai-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetAll() ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	CountAll() (int64, error)

	GetManagedUsers(adminID uint) ([]model.User, error)
	GetManagers(userID uint) ([]model.User, error)
	AddManagedUser(adminID, userID uint) error
	RemoveManagedUser(adminID, userID uint) error
	IsManagedBy(adminID, userID uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("name").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) Delete(id uint) error {
	// Drop the managed-user links on both sides first.
	if err := r.db.Exec("DELETE FROM admin_managed_users WHERE admin_id = ? OR user_id = ?", id, id).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&model.User{}, id).Error
}

func (r *userRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) GetManagedUsers(adminID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN admin_managed_users m ON m.user_id = users.id").
		Where("m.admin_id = ?", adminID).
		Order("users.name").
		Find(&users).Error
	return users, err
}

// GetManagers lists the administrators a user may reach out to.
func (r *userRepository) GetManagers(userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN admin_managed_users m ON m.admin_id = users.id").
		Where("m.user_id = ? AND (users.is_admin = ? OR users.is_superadmin = ?)", userID, true, true).
		Order("users.name").
		Find(&users).Error
	return users, err
}

func (r *userRepository) AddManagedUser(adminID, userID uint) error {
	// Portable upsert: the dialect-specific INSERT ... IGNORE variants differ
	// between sqlite and mysql.
	managed, err := r.IsManagedBy(adminID, userID)
	if err != nil || managed {
		return err
	}
	return r.db.Exec(
		"INSERT INTO admin_managed_users (admin_id, user_id) VALUES (?, ?)",
		adminID, userID,
	).Error
}

func (r *userRepository) RemoveManagedUser(adminID, userID uint) error {
	return r.db.Exec(
		"DELETE FROM admin_managed_users WHERE admin_id = ? AND user_id = ?",
		adminID, userID,
	).Error
}

func (r *userRepository) IsManagedBy(adminID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("admin_managed_users").
		Where("admin_id = ? AND user_id = ?", adminID, userID).
		Count(&count).Error
	return count > 0, err
}
