package repositories

import (
	"fmt"

	"PlantKeeper/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Plant{},
		&models.WateringEvent{},
		&models.HealthRecord{},
		&models.CareActivity{},
		&models.NotificationSettings{},
	); err != nil {
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return db, nil
}
