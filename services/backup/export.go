package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"PlantKeeper/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const exportVersion = "1.0"

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// Export serializes the acting user's entire data graph into a zip
// archive: the manifest as the first entry, then any plant images that are
// resolvable in the blob store. Images whose stored reference cannot be
// read (for example, objects that no longer exist remotely) are skipped
// with a log note rather than failing the export.
func (s *Service) Export(ctx context.Context, userID uint) ([]byte, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var (
		plants    []models.Plant
		locations []models.Location
		watering  []models.WateringEvent
		health    []models.HealthRecord
		care      []models.CareActivity
		settings  *models.NotificationSettings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plants, err = s.store.Plants().GetAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.store.Locations().GetAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		watering, err = s.store.Watering().GetAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		health, err = s.store.Health().GetAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		care, err = s.store.Care().GetAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.store.Notifications().Get(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather account data: %w", err)
	}

	manifest := buildManifest(user.Username, plants, locations, watering, health, care, settings)

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	entry, err := zw.Create(ManifestName)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	for _, p := range plants {
		if p.ImageURL == "" {
			continue
		}
		if err := s.bundlePlantImage(ctx, zw, userID, &p); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user":   userID,
		"plants": len(plants),
		"bytes":  buf.Len(),
	}).Info("Backup export assembled")
	return buf.Bytes(), nil
}

func (s *Service) bundlePlantImage(ctx context.Context, zw *zip.Writer, userID uint, p *models.Plant) error {
	rc, err := s.blobs.Open(ctx, userID, p.ImageURL)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user":  userID,
			"plant": p.ID,
			"key":   p.ImageURL,
		}).Warn("Plant image not resolvable in blob store, leaving it out of the archive")
		return nil
	}
	defer rc.Close()

	ext := strings.ToLower(path.Ext(p.ImageURL))
	if !imageExtensions[ext] {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%splant-%d-%s%s", imagePrefix, p.ID, sanitizeEntryName(p.Name), ext)

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, rc); err != nil {
		return fmt.Errorf("failed to bundle image for plant %d: %w", p.ID, err)
	}
	return nil
}

// sanitizeEntryName reduces a plant name to characters that survive the
// archive reader's filename allow-list.
func sanitizeEntryName(name string) string {
	clean := unsafeNameChars.ReplaceAllString(strings.ToLower(name), "-")
	clean = strings.Trim(clean, "-")
	if clean == "" {
		clean = "plant"
	}
	if len(clean) > 40 {
		clean = clean[:40]
	}
	return clean
}

func buildManifest(username string, plants []models.Plant, locations []models.Location, watering []models.WateringEvent, health []models.HealthRecord, care []models.CareActivity, settings *models.NotificationSettings) *BackupManifest {
	m := &BackupManifest{
		ExportInfo: ExportInfo{
			Version:    exportVersion,
			ExportDate: BackupTime{time.Now().UTC()},
			Username:   username,
		},
		Plants:          make([]PlantEntry, 0, len(plants)),
		Locations:       make([]LocationEntry, 0, len(locations)),
		WateringHistory: make([]WateringEntry, 0, len(watering)),
		HealthRecords:   make([]HealthEntry, 0, len(health)),
		CareActivities:  make([]CareEntry, 0, len(care)),
	}

	for _, l := range locations {
		m.Locations = append(m.Locations, LocationEntry{
			ID:        int(l.ID),
			Name:      l.Name,
			IsDefault: l.IsDefault,
		})
	}
	for _, p := range plants {
		entry := PlantEntry{
			ID:                    int(p.ID),
			Name:                  p.Name,
			Species:               p.Species,
			LocationID:            int(p.LocationID),
			WateringFrequencyDays: p.WateringFrequencyDays,
			Notes:                 p.Notes,
		}
		if p.LastWateredAt != nil {
			entry.LastWateredAt = &BackupTime{*p.LastWateredAt}
		}
		m.Plants = append(m.Plants, entry)
	}
	for _, w := range watering {
		m.WateringHistory = append(m.WateringHistory, WateringEntry{
			ID:        int(w.ID),
			PlantID:   int(w.PlantID),
			WateredAt: BackupTime{w.WateredAt},
			Notes:     w.Notes,
		})
	}
	for _, h := range health {
		m.HealthRecords = append(m.HealthRecords, HealthEntry{
			ID:         int(h.ID),
			PlantID:    int(h.PlantID),
			ObservedAt: BackupTime{h.ObservedAt},
			Status:     h.Status,
			Notes:      h.Notes,
			ImageURL:   h.ImageURL,
		})
	}
	for _, c := range care {
		m.CareActivities = append(m.CareActivities, CareEntry{
			ID:          int(c.ID),
			PlantID:     int(c.PlantID),
			Type:        c.Type,
			PerformedAt: BackupTime{c.PerformedAt},
			Notes:       c.Notes,
		})
	}

	// NotificationEntry has no field for provider credentials, so the
	// projection cannot leak them even if the model ever grows new ones.
	if settings != nil {
		m.NotificationSettings = &NotificationEntry{
			EmailEnabled: settings.EmailEnabled,
			PushEnabled:  settings.PushEnabled,
			Email:        settings.Email,
			ReminderHour: settings.ReminderHour,
		}
	}

	return m
}
