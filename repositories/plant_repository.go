package repositories

import (
	"context"
	"errors"

	"PlantKeeper/models"

	"gorm.io/gorm"
)

type PlantRepositoryInterface interface {
	GetAll(ctx context.Context, userID uint) ([]models.Plant, error)
	GetByID(ctx context.Context, userID, id uint) (*models.Plant, error)
	// FindByNaturalKey matches on (name, species, location), name and
	// species case-insensitively. Returns (nil, nil) when no row matches.
	FindByNaturalKey(ctx context.Context, userID uint, name, species string, locationID uint) (*models.Plant, error)
	Create(ctx context.Context, plant *models.Plant) error
	Update(ctx context.Context, plant *models.Plant) error
	Delete(ctx context.Context, userID, id uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type PlantRepository struct {
	db *gorm.DB
}

func NewPlantRepository(db *gorm.DB) PlantRepositoryInterface {
	return &PlantRepository{db: db}
}

func (r *PlantRepository) GetAll(ctx context.Context, userID uint) ([]models.Plant, error) {
	var plants []models.Plant
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&plants).Error
	return plants, err
}

func (r *PlantRepository) GetByID(ctx context.Context, userID, id uint) (*models.Plant, error) {
	var plant models.Plant
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&plant, id).Error
	if err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *PlantRepository) FindByNaturalKey(ctx context.Context, userID uint, name, species string, locationID uint) (*models.Plant, error) {
	var plant models.Plant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND LOWER(species) = LOWER(?) AND location_id = ?",
			userID, name, species, locationID).
		First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *PlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	return r.db.WithContext(ctx).Create(plant).Error
}

func (r *PlantRepository) Update(ctx context.Context, plant *models.Plant) error {
	return r.db.WithContext(ctx).Save(plant).Error
}

func (r *PlantRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Plant{}, id).Error
}

func (r *PlantRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Plant{}).Error
}
