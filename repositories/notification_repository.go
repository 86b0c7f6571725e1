package repositories

import (
	"context"
	"errors"

	"PlantKeeper/models"

	"gorm.io/gorm"
)

type NotificationRepositoryInterface interface {
	// Get returns (nil, nil) when the user has no settings row yet.
	Get(ctx context.Context, userID uint) (*models.NotificationSettings, error)
	Upsert(ctx context.Context, settings *models.NotificationSettings) error
	DeleteForUser(ctx context.Context, userID uint) error
	// DueForReminder returns settings rows with any channel enabled whose
	// reminder hour matches the given hour of day.
	DueForReminder(ctx context.Context, hour int) ([]models.NotificationSettings, error)
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepositoryInterface {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Get(ctx context.Context, userID uint) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *NotificationRepository) Upsert(ctx context.Context, settings *models.NotificationSettings) error {
	existing, err := r.Get(ctx, settings.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *NotificationRepository) DeleteForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.NotificationSettings{}).Error
}

func (r *NotificationRepository) DueForReminder(ctx context.Context, hour int) ([]models.NotificationSettings, error) {
	var rows []models.NotificationSettings
	err := r.db.WithContext(ctx).
		Where("reminder_hour = ? AND (email_enabled = true OR push_enabled = true)", hour).
		Find(&rows).Error
	return rows, err
}
