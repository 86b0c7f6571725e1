package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PlantKeeper/models"
	"PlantKeeper/repositories"

	"github.com/sirupsen/logrus"
)

// Clock is injected so polling can be driven by a fake in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Notifier delivers a watering reminder through whatever channels the
// user enabled. The real email/push senders live behind this interface.
type Notifier interface {
	Notify(ctx context.Context, settings *models.NotificationSettings, message string) error
}

// LogNotifier writes reminders to the log. Stand-in for environments
// without a configured delivery channel.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, settings *models.NotificationSettings, message string) error {
	logrus.WithFields(logrus.Fields{
		"user":  settings.UserID,
		"email": settings.EmailEnabled,
		"push":  settings.PushEnabled,
	}).Info("Watering reminder: ", message)
	return nil
}

// Scheduler polls for plants due for watering and notifies their owners
// once per day at each user's configured reminder hour. All state lives on
// the struct; nothing is package-global.
type Scheduler struct {
	store    repositories.Store
	notifier Notifier
	clock    Clock
	interval time.Duration

	mu       sync.Mutex
	lastSent map[uint]string // userID -> date of the last reminder
}

func NewScheduler(store repositories.Store, notifier Notifier, clock Clock) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		clock:    clock,
		interval: 5 * time.Minute,
		lastSent: make(map[uint]string),
	}
}

// Run polls until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Poll(ctx); err != nil {
				logrus.Error("Reminder poll failed: ", err)
			}
		}
	}
}

// Poll runs one reminder pass for the current hour.
func (s *Scheduler) Poll(ctx context.Context) error {
	now := s.clock.Now()
	due, err := s.store.Notifications().DueForReminder(ctx, now.Hour())
	if err != nil {
		return err
	}

	today := now.Format("2006-01-02")
	for i := range due {
		settings := &due[i]

		s.mu.Lock()
		sent := s.lastSent[settings.UserID] == today
		s.mu.Unlock()
		if sent {
			continue
		}

		count, err := s.duePlantCount(ctx, settings.UserID, now)
		if err != nil {
			logrus.WithField("user", settings.UserID).Error("Failed to check due plants: ", err)
			continue
		}
		if count == 0 {
			continue
		}

		message := fmt.Sprintf("%d plant(s) need watering today", count)
		if err := s.notifier.Notify(ctx, settings, message); err != nil {
			logrus.WithField("user", settings.UserID).Error("Failed to deliver reminder: ", err)
			continue
		}

		s.mu.Lock()
		s.lastSent[settings.UserID] = today
		s.mu.Unlock()
	}
	return nil
}

func (s *Scheduler) duePlantCount(ctx context.Context, userID uint, now time.Time) (int, error) {
	plants, err := s.store.Plants().GetAll(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range plants {
		if p.WateringFrequencyDays <= 0 {
			continue
		}
		// A plant never watered is always due.
		if p.LastWateredAt == nil {
			count++
			continue
		}
		next := p.LastWateredAt.AddDate(0, 0, p.WateringFrequencyDays)
		if !next.After(now) {
			count++
		}
	}
	return count, nil
}
