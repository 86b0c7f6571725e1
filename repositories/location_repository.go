package repositories

import (
	"context"
	"errors"

	"PlantKeeper/models"

	"gorm.io/gorm"
)

type LocationRepositoryInterface interface {
	GetAll(ctx context.Context, userID uint) ([]models.Location, error)
	// FindByName matches case-insensitively. Returns (nil, nil) when no row
	// matches.
	FindByName(ctx context.Context, userID uint, name string) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, userID, id uint) error
	DeleteNonDefaultForUser(ctx context.Context, userID uint) error
}

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepositoryInterface {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) GetAll(ctx context.Context, userID uint) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) FindByName(ctx context.Context, userID uint, name string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *LocationRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = false", userID).
		Delete(&models.Location{}, id).Error
}

func (r *LocationRepository) DeleteNonDefaultForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = false", userID).
		Delete(&models.Location{}).Error
}
