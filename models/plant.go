package models

import (
	"time"

	"gorm.io/gorm"
)

type Plant struct {
	gorm.Model
	UserID                uint       `json:"-" gorm:"index"`
	Name                  string     `json:"name"`
	Species               string     `json:"species"`
	LocationID            uint       `json:"locationId"`
	WateringFrequencyDays int        `json:"wateringFrequencyDays"`
	Notes                 string     `json:"notes"`
	LastWateredAt         *time.Time `json:"lastWateredAt"`
	ImageURL              string     `json:"imageUrl"`
}

type Location struct {
	gorm.Model
	UserID    uint   `json:"-" gorm:"index"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}
