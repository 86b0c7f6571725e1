package models

import "gorm.io/gorm"

// NotificationSettings holds per-user reminder preferences. PushAPIToken is
// a provider credential: it is write-only on the API and must never leave
// the account in an export.
type NotificationSettings struct {
	gorm.Model
	UserID       uint   `json:"-" gorm:"uniqueIndex"`
	EmailEnabled bool   `json:"emailEnabled"`
	PushEnabled  bool   `json:"pushEnabled"`
	Email        string `json:"email"`
	ReminderHour int    `json:"reminderHour"`
	PushAPIToken string `json:"-"`
}
