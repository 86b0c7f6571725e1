package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the per-entity repositories behind one handle so callers can
// run multi-entity work in a single transaction. Nested Transaction calls
// map to savepoints, so a failed inner call can be rolled back without
// poisoning the outer transaction.
type Store interface {
	Users() UserRepositoryInterface
	Plants() PlantRepositoryInterface
	Locations() LocationRepositoryInterface
	Watering() WateringRepositoryInterface
	Health() HealthRepositoryInterface
	Care() CareRepositoryInterface
	Notifications() NotificationRepositoryInterface

	Transaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepositoryInterface { return NewUserRepository(s.db) }

func (s *gormStore) Plants() PlantRepositoryInterface { return NewPlantRepository(s.db) }

func (s *gormStore) Locations() LocationRepositoryInterface { return NewLocationRepository(s.db) }

func (s *gormStore) Watering() WateringRepositoryInterface { return NewWateringRepository(s.db) }

func (s *gormStore) Health() HealthRepositoryInterface { return NewHealthRepository(s.db) }

func (s *gormStore) Care() CareRepositoryInterface { return NewCareRepository(s.db) }

func (s *gormStore) Notifications() NotificationRepositoryInterface {
	return NewNotificationRepository(s.db)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
