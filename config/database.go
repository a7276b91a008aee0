package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kintai-backend/internal/model"
)

var DB *gorm.DB

// ConnectDB opens the database selected by DB_DRIVER and runs migrations.
// sqlite is the default and needs no external server; mysql expects a DSN in
// the usual user:password@tcp(host:port)/dbname form.
func ConnectDB() {
	driver := GetEnv("DB_DRIVER", "sqlite")

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "mysql":
		dsn := GetEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/kintai?charset=utf8mb4&parseTime=True&loc=Local")
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(GetEnv("DB_PATH", "kintai.db")), &gorm.Config{})
	default:
		panic(fmt.Sprintf("unknown DB_DRIVER %q", driver))
	}
	if err != nil {
		panic("database connection failed: " + err.Error())
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Attendance{},
		&model.MailSettings{},
	); err != nil {
		panic("migration failed: " + err.Error())
	}

	DB = db
}
