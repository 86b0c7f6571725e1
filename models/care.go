package models

import (
	"time"

	"gorm.io/gorm"
)

// WateringEvent is the legacy watering-history table. New care events go
// through CareActivity; these rows are kept so old exports stay importable.
type WateringEvent struct {
	gorm.Model
	UserID    uint      `json:"-" gorm:"index"`
	PlantID   uint      `json:"plantId" gorm:"index"`
	WateredAt time.Time `json:"wateredAt"`
	Notes     string    `json:"notes"`
}

type HealthRecord struct {
	gorm.Model
	UserID     uint      `json:"-" gorm:"index"`
	PlantID    uint      `json:"plantId" gorm:"index"`
	ObservedAt time.Time `json:"observedAt"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	ImageURL   string    `json:"imageUrl"`
}

type CareActivity struct {
	gorm.Model
	UserID      uint      `json:"-" gorm:"index"`
	PlantID     uint      `json:"plantId" gorm:"index"`
	Type        string    `json:"type"`
	PerformedAt time.Time `json:"performedAt"`
	Notes       string    `json:"notes"`
}
