package backup

import (
	"encoding/json"
	"fmt"
	"time"
)

// BackupManifest is the root document of a backup archive. IDs inside it
// are source-scoped: they only express cross-references between manifest
// records and mean nothing in the destination account. wateringHistory,
// plantHealthRecords, careActivities and notificationSettings are optional
// so exports from older versions still import.
type BackupManifest struct {
	ExportInfo           ExportInfo         `json:"exportInfo"`
	Plants               []PlantEntry       `json:"plants"`
	Locations            []LocationEntry    `json:"locations"`
	WateringHistory      []WateringEntry    `json:"wateringHistory,omitempty"`
	HealthRecords        []HealthEntry      `json:"plantHealthRecords,omitempty"`
	CareActivities       []CareEntry        `json:"careActivities,omitempty"`
	NotificationSettings *NotificationEntry `json:"notificationSettings,omitempty"`
}

// ExportInfo is provenance only. It is never trusted for authorization:
// the acting user always comes from the authenticated request.
type ExportInfo struct {
	Version    string     `json:"version"`
	ExportDate BackupTime `json:"exportDate"`
	Username   string     `json:"username"`
}

type PlantEntry struct {
	ID                    int         `json:"id"`
	Name                  string      `json:"name"`
	Species               string      `json:"species"`
	LocationID            int         `json:"locationId"`
	WateringFrequencyDays int         `json:"wateringFrequencyDays"`
	Notes                 string      `json:"notes,omitempty"`
	LastWateredAt         *BackupTime `json:"lastWateredAt,omitempty"`
}

type LocationEntry struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

type WateringEntry struct {
	ID        int        `json:"id"`
	PlantID   int        `json:"plantId"`
	WateredAt BackupTime `json:"wateredAt"`
	Notes     string     `json:"notes,omitempty"`
}

type HealthEntry struct {
	ID         int        `json:"id"`
	PlantID    int        `json:"plantId"`
	ObservedAt BackupTime `json:"observedAt"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
}

type CareEntry struct {
	ID          int        `json:"id"`
	PlantID     int        `json:"plantId"`
	Type        string     `json:"type"`
	PerformedAt BackupTime `json:"performedAt"`
	Notes       string     `json:"notes,omitempty"`
}

// NotificationEntry carries only the safe subset of notification settings.
// Provider credentials have no field here, so they can neither be exported
// nor smuggled in through an import.
type NotificationEntry struct {
	EmailEnabled bool   `json:"emailEnabled"`
	PushEnabled  bool   `json:"pushEnabled"`
	Email        string `json:"email,omitempty"`
	ReminderHour int    `json:"reminderHour"`
}

// BackupTime accepts the timestamp formats that have appeared in exports
// over time: RFC3339, space-separated date-time and bare dates.
type BackupTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *BackupTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp is not a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t BackupTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

// ParseManifest decodes and shape-checks untrusted manifest bytes. Unknown
// fields are ignored for forward compatibility; a missing required field is
// a fatal ValidationError naming the offending record.
func ParseManifest(data []byte) (*BackupManifest, error) {
	var m BackupManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	for i, loc := range m.Locations {
		if loc.Name == "" {
			return nil, &ValidationError{Record: fmt.Sprintf("locations[%d]", i), Reason: "missing name"}
		}
	}
	for i, p := range m.Plants {
		if p.Name == "" {
			return nil, &ValidationError{Record: fmt.Sprintf("plants[%d]", i), Reason: "missing name"}
		}
		if p.ID <= 0 {
			return nil, &ValidationError{Record: fmt.Sprintf("plants[%d]", i), Reason: "missing id"}
		}
	}
	for i, w := range m.WateringHistory {
		if w.PlantID <= 0 {
			return nil, &ValidationError{Record: fmt.Sprintf("wateringHistory[%d]", i), Reason: "missing plantId"}
		}
	}
	for i, h := range m.HealthRecords {
		if h.PlantID <= 0 {
			return nil, &ValidationError{Record: fmt.Sprintf("plantHealthRecords[%d]", i), Reason: "missing plantId"}
		}
		if h.Status == "" {
			return nil, &ValidationError{Record: fmt.Sprintf("plantHealthRecords[%d]", i), Reason: "missing status"}
		}
	}
	for i, c := range m.CareActivities {
		if c.PlantID <= 0 {
			return nil, &ValidationError{Record: fmt.Sprintf("careActivities[%d]", i), Reason: "missing plantId"}
		}
		if c.Type == "" {
			return nil, &ValidationError{Record: fmt.Sprintf("careActivities[%d]", i), Reason: "missing type"}
		}
	}

	return &m, nil
}
