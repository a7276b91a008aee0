package repository

import (
	"errors"

	"kintai-backend/internal/model"

	"gorm.io/gorm"
)

type MailSettingsRepository interface {
	Get() (*model.MailSettings, error)
	Save(settings *model.MailSettings) error
}

type mailSettingsRepository struct {
	db *gorm.DB
}

func NewMailSettingsRepository(db *gorm.DB) MailSettingsRepository {
	return &mailSettingsRepository{db}
}

// Get returns the settings row, or nil when mail was never configured.
func (r *mailSettingsRepository) Get() (*model.MailSettings, error) {
	var settings model.MailSettings
	err := r.db.First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *mailSettingsRepository) Save(settings *model.MailSettings) error {
	settings.ID = 1
	return r.db.Save(settings).Error
}
