package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Name         string `json:"name" gorm:"not null"`
	Password     string `json:"-"`
	IsAdmin      bool   `json:"is_admin" gorm:"default:false"`
	IsSuperadmin bool   `json:"is_superadmin" gorm:"default:false"`

	// Time of day after which worked hours count as overtime, "HH:MM".
	OvertimeThreshold string `json:"overtime_threshold" gorm:"default:'18:00'"`

	// Employees this user manages (admins only).
	Managed []User `json:"-" gorm:"many2many:admin_managed_users;joinForeignKey:AdminID;joinReferences:UserID"`
}
