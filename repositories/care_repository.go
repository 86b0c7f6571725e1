package repositories

import (
	"context"

	"PlantKeeper/models"

	"gorm.io/gorm"
)

type WateringRepositoryInterface interface {
	GetAll(ctx context.Context, userID uint) ([]models.WateringEvent, error)
	GetForPlant(ctx context.Context, userID, plantID uint) ([]models.WateringEvent, error)
	Create(ctx context.Context, event *models.WateringEvent) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type HealthRepositoryInterface interface {
	GetAll(ctx context.Context, userID uint) ([]models.HealthRecord, error)
	GetForPlant(ctx context.Context, userID, plantID uint) ([]models.HealthRecord, error)
	Create(ctx context.Context, record *models.HealthRecord) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type CareRepositoryInterface interface {
	GetAll(ctx context.Context, userID uint) ([]models.CareActivity, error)
	GetForPlant(ctx context.Context, userID, plantID uint) ([]models.CareActivity, error)
	Create(ctx context.Context, activity *models.CareActivity) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type WateringRepository struct {
	db *gorm.DB
}

func NewWateringRepository(db *gorm.DB) WateringRepositoryInterface {
	return &WateringRepository{db: db}
}

func (r *WateringRepository) GetAll(ctx context.Context, userID uint) ([]models.WateringEvent, error) {
	var events []models.WateringEvent
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&events).Error
	return events, err
}

func (r *WateringRepository) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.WateringEvent, error) {
	var events []models.WateringEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Order("watered_at desc").Find(&events).Error
	return events, err
}

func (r *WateringRepository) Create(ctx context.Context, event *models.WateringEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *WateringRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.WateringEvent{}).Error
}

type HealthRepository struct {
	db *gorm.DB
}

func NewHealthRepository(db *gorm.DB) HealthRepositoryInterface {
	return &HealthRepository{db: db}
}

func (r *HealthRepository) GetAll(ctx context.Context, userID uint) ([]models.HealthRecord, error) {
	var records []models.HealthRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&records).Error
	return records, err
}

func (r *HealthRepository) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.HealthRecord, error) {
	var records []models.HealthRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Order("observed_at desc").Find(&records).Error
	return records, err
}

func (r *HealthRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *HealthRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.HealthRecord{}).Error
}

type CareRepository struct {
	db *gorm.DB
}

func NewCareRepository(db *gorm.DB) CareRepositoryInterface {
	return &CareRepository{db: db}
}

func (r *CareRepository) GetAll(ctx context.Context, userID uint) ([]models.CareActivity, error) {
	var activities []models.CareActivity
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&activities).Error
	return activities, err
}

func (r *CareRepository) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.CareActivity, error) {
	var activities []models.CareActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Order("performed_at desc").Find(&activities).Error
	return activities, err
}

func (r *CareRepository) Create(ctx context.Context, activity *models.CareActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *CareRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CareActivity{}).Error
}
