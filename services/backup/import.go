package backup

import (
	"context"
	"fmt"

	"PlantKeeper/models"
	"PlantKeeper/repositories"
	"PlantKeeper/storage"

	"github.com/sirupsen/logrus"
)

type Mode string

const (
	ModeMerge   Mode = "merge"
	ModeReplace Mode = "replace"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMerge, ModeReplace:
		return Mode(s), nil
	case "":
		return ModeMerge, nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

// Summary reports what one import run actually wrote. Warnings collect
// every non-fatal per-record skip or failure.
type Summary struct {
	Mode                        Mode     `json:"mode"`
	PlantsImported              int      `json:"plantsImported"`
	LocationsImported           int      `json:"locationsImported"`
	WateringHistoryImported     int      `json:"wateringHistoryImported"`
	HealthRecordsImported       int      `json:"healthRecordsImported"`
	CareActivitiesImported      int      `json:"careActivitiesImported"`
	ImagesImported              int      `json:"imagesImported"`
	NotificationSettingsUpdated bool     `json:"notificationSettingsUpdated"`
	Warnings                    []string `json:"warnings"`
}

func (s *Summary) warnf(format string, args ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Service is the backup import/export pipeline. It owns no persistent
// state: the ID mapping tables and summary it builds live for one call.
type Service struct {
	store repositories.Store
	blobs storage.Storage
	locks *accountLocks
}

func NewService(store repositories.Store, blobs storage.Storage) *Service {
	return &Service{
		store: store,
		blobs: blobs,
		locks: newAccountLocks(),
	}
}

// Import restores an uploaded archive into the acting user's account. The
// caller is responsible for authentication and, in replace mode, for an
// explicit confirmation before invoking this.
//
// Archive-level failures (corrupt zip, bounds, bad manifest shape) and a
// failed replace-mode wipe abort the whole call; everything per-record is
// caught, recorded as a warning and skipped. The entire run, wipe
// included, executes inside one transaction, so a failure mid-import
// leaves the account exactly as it was.
func (s *Service) Import(ctx context.Context, data []byte, mode Mode, userID uint) (*Summary, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	arch, err := ReadArchive(data)
	if err != nil {
		return nil, err
	}
	manifest, err := ParseManifest(arch.Manifest)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"user": userID,
		"mode": mode,
	})
	log.WithFields(logrus.Fields{
		"plants":    len(manifest.Plants),
		"locations": len(manifest.Locations),
		"version":   manifest.ExportInfo.Version,
	}).Info("Starting backup import")

	summary := &Summary{Mode: mode, Warnings: []string{}}
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		return s.runImport(ctx, tx, arch, manifest, mode, userID, summary)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"plantsImported": summary.PlantsImported,
		"warnings":       len(summary.Warnings),
	}).Info("Backup import finished")
	return summary, nil
}

func (s *Service) runImport(ctx context.Context, tx repositories.Store, arch *Archive, m *BackupManifest, mode Mode, userID uint, sum *Summary) error {
	if mode == ModeReplace {
		if err := s.wipeAccount(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	// Source-scoped IDs from the manifest mapped to the IDs assigned in
	// this account. Built here, consulted by every later step, discarded
	// when the call returns.
	locationIDs := make(map[int]uint)
	plantIDs := make(map[int]uint)

	for i := range m.Locations {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &m.Locations[i]
		var created bool
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			var err error
			created, err = s.restoreLocation(ctx, tx2, userID, entry, locationIDs)
			return err
		})
		if err != nil {
			sum.warnf("Failed to restore location '%s': %v", entry.Name, err)
			continue
		}
		if created && !entry.IsDefault {
			sum.LocationsImported++
		}
	}

	for i := range m.Plants {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &m.Plants[i]
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			return s.restorePlant(ctx, tx2, userID, entry, mode, locationIDs, plantIDs)
		})
		if err != nil {
			sum.warnf("Failed to restore plant '%s': %v", entry.Name, err)
			continue
		}
		sum.PlantsImported++
	}

	for i := range m.WateringHistory {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &m.WateringHistory[i]
		destPlant, ok := plantIDs[entry.PlantID]
		if !ok {
			sum.warnf("Skipping watering event: plant ID %d not found", entry.PlantID)
			continue
		}
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			return tx2.Watering().Create(ctx, &models.WateringEvent{
				UserID:    userID,
				PlantID:   destPlant,
				WateredAt: entry.WateredAt.Time,
				Notes:     entry.Notes,
			})
		})
		if err != nil {
			sum.warnf("Failed to restore watering event: %v", err)
			continue
		}
		sum.WateringHistoryImported++
	}

	for i := range m.HealthRecords {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &m.HealthRecords[i]
		destPlant, ok := plantIDs[entry.PlantID]
		if !ok {
			sum.warnf("Skipping health record: plant ID %d not found", entry.PlantID)
			continue
		}
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			// Image URLs from the source account are not portable; the
			// reference is dropped rather than carried over dangling.
			return tx2.Health().Create(ctx, &models.HealthRecord{
				UserID:     userID,
				PlantID:    destPlant,
				ObservedAt: entry.ObservedAt.Time,
				Status:     entry.Status,
				Notes:      entry.Notes,
				ImageURL:   "",
			})
		})
		if err != nil {
			sum.warnf("Failed to restore health record: %v", err)
			continue
		}
		sum.HealthRecordsImported++
	}

	for i := range m.CareActivities {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &m.CareActivities[i]
		destPlant, ok := plantIDs[entry.PlantID]
		if !ok {
			sum.warnf("Skipping care activity: plant ID %d not found", entry.PlantID)
			continue
		}
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			return tx2.Care().Create(ctx, &models.CareActivity{
				UserID:      userID,
				PlantID:     destPlant,
				Type:        entry.Type,
				PerformedAt: entry.PerformedAt.Time,
				Notes:       entry.Notes,
			})
		})
		if err != nil {
			sum.warnf("Failed to restore care activity: %v", err)
			continue
		}
		sum.CareActivitiesImported++
	}

	if m.NotificationSettings != nil {
		err := tx.Transaction(ctx, func(tx2 repositories.Store) error {
			return s.restoreNotificationSettings(ctx, tx2, userID, m.NotificationSettings)
		})
		if err != nil {
			sum.warnf("Failed to restore notification settings: %v", err)
		} else {
			sum.NotificationSettingsUpdated = true
		}
	}

	s.bindImages(ctx, tx, userID, m, arch, plantIDs, sum)

	return nil
}

func (s *Service) wipeAccount(ctx context.Context, tx repositories.Store, userID uint) error {
	// Dependents first so no record ever dangles, even transiently.
	if err := tx.Watering().DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := tx.Health().DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := tx.Care().DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := tx.Plants().DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := tx.Locations().DeleteNonDefaultForUser(ctx, userID); err != nil {
		return err
	}
	return tx.Notifications().DeleteForUser(ctx, userID)
}

// restoreLocation reuses an existing location with the same name
// (case-insensitively) or creates a new one, and records the source ID
// mapping either way. Default locations are seeded at registration and
// only ever matched here: a created row is always non-default, whatever
// the manifest claims, so an archive cannot mint a row the delete paths
// refuse to touch.
func (s *Service) restoreLocation(ctx context.Context, tx repositories.Store, userID uint, entry *LocationEntry, locationIDs map[int]uint) (created bool, err error) {
	existing, err := tx.Locations().FindByName(ctx, userID, entry.Name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		locationIDs[entry.ID] = existing.ID
		return false, nil
	}

	location := &models.Location{
		UserID:    userID,
		Name:      entry.Name,
		IsDefault: false,
	}
	if err := tx.Locations().Create(ctx, location); err != nil {
		return false, err
	}
	locationIDs[entry.ID] = location.ID
	return true, nil
}

// restorePlant creates the plant, or in merge mode reconciles it against
// an existing plant with the same (name, species, location) natural key.
// Fresh plants are created without an image URL; image association happens
// in the binding step once all plants are mapped.
func (s *Service) restorePlant(ctx context.Context, tx repositories.Store, userID uint, entry *PlantEntry, mode Mode, locationIDs, plantIDs map[int]uint) error {
	destLocation, ok := locationIDs[entry.LocationID]
	if !ok {
		return fmt.Errorf("location ID %d not found", entry.LocationID)
	}

	if mode == ModeMerge {
		existing, err := tx.Plants().FindByNaturalKey(ctx, userID, entry.Name, entry.Species, destLocation)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.WateringFrequencyDays = entry.WateringFrequencyDays
			existing.Notes = entry.Notes
			if entry.LastWateredAt != nil {
				t := entry.LastWateredAt.Time
				existing.LastWateredAt = &t
			}
			if err := tx.Plants().Update(ctx, existing); err != nil {
				return err
			}
			plantIDs[entry.ID] = existing.ID
			return nil
		}
	}

	plant := &models.Plant{
		UserID:                userID,
		Name:                  entry.Name,
		Species:               entry.Species,
		LocationID:            destLocation,
		WateringFrequencyDays: entry.WateringFrequencyDays,
		Notes:                 entry.Notes,
	}
	if entry.LastWateredAt != nil {
		t := entry.LastWateredAt.Time
		plant.LastWateredAt = &t
	}
	if err := tx.Plants().Create(ctx, plant); err != nil {
		return err
	}
	plantIDs[entry.ID] = plant.ID
	return nil
}

// restoreNotificationSettings copies the safe fields from the manifest.
// The push provider token is never taken from an archive: an existing
// local token is preserved, and a well-formed export carries none anyway.
func (s *Service) restoreNotificationSettings(ctx context.Context, tx repositories.Store, userID uint, entry *NotificationEntry) error {
	settings := &models.NotificationSettings{
		UserID:       userID,
		EmailEnabled: entry.EmailEnabled,
		PushEnabled:  entry.PushEnabled,
		Email:        entry.Email,
		ReminderHour: entry.ReminderHour,
	}

	existing, err := tx.Notifications().Get(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		settings.PushAPIToken = existing.PushAPIToken
	}
	return tx.Notifications().Upsert(ctx, settings)
}
