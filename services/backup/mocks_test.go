package backup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"PlantKeeper/models"
	"PlantKeeper/repositories"
)

// mockStore is an in-memory repositories.Store. Transactions execute the
// callback directly; per-record failures are injected through the fail*
// fields instead of simulating rollbacks.
type mockStore struct {
	mu sync.Mutex

	nextID        uint
	users         map[uint]*models.User
	plants        []*models.Plant
	locations     []*models.Location
	watering      []*models.WateringEvent
	health        []*models.HealthRecord
	care          []*models.CareActivity
	notifications map[uint]*models.NotificationSettings

	failPlantNames    map[string]bool
	failNotifications bool
}

func newMockStore() *mockStore {
	return &mockStore{
		nextID:         0,
		users:          make(map[uint]*models.User),
		notifications:  make(map[uint]*models.NotificationSettings),
		failPlantNames: make(map[string]bool),
	}
}

func (m *mockStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockStore) addUser(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{Username: username}
	u.ID = m.id()
	m.users[u.ID] = u
	return u
}

func (m *mockStore) addLocation(userID uint, name string, isDefault bool) *models.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := &models.Location{UserID: userID, Name: name, IsDefault: isDefault}
	l.ID = m.id()
	m.locations = append(m.locations, l)
	return l
}

func (m *mockStore) addPlant(userID uint, name, species string, locationID uint) *models.Plant {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Plant{UserID: userID, Name: name, Species: species, LocationID: locationID, WateringFrequencyDays: 7}
	p.ID = m.id()
	m.plants = append(m.plants, p)
	return p
}

func (m *mockStore) plantCount(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.plants {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

func (m *mockStore) Users() repositories.UserRepositoryInterface { return (*mockUsers)(m) }

func (m *mockStore) Plants() repositories.PlantRepositoryInterface { return (*mockPlants)(m) }

func (m *mockStore) Locations() repositories.LocationRepositoryInterface {
	return (*mockLocations)(m)
}

func (m *mockStore) Watering() repositories.WateringRepositoryInterface {
	return (*mockWatering)(m)
}

func (m *mockStore) Health() repositories.HealthRepositoryInterface { return (*mockHealth)(m) }

func (m *mockStore) Care() repositories.CareRepositoryInterface { return (*mockCare)(m) }

func (m *mockStore) Notifications() repositories.NotificationRepositoryInterface {
	return (*mockNotifications)(m)
}

func (m *mockStore) Transaction(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(m)
}

type mockUsers mockStore

func (m *mockUsers) Create(ctx context.Context, user *models.User) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.id()
	s.users[user.ID] = user
	return nil
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *mockUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found")
}

type mockPlants mockStore

func (m *mockPlants) GetAll(ctx context.Context, userID uint) ([]models.Plant, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Plant
	for _, p := range s.plants {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPlants) GetByID(ctx context.Context, userID, id uint) (*models.Plant, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plants {
		if p.UserID == userID && p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("plant not found")
}

func (m *mockPlants) FindByNaturalKey(ctx context.Context, userID uint, name, species string, locationID uint) (*models.Plant, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plants {
		if p.UserID == userID &&
			strings.EqualFold(p.Name, name) &&
			strings.EqualFold(p.Species, species) &&
			p.LocationID == locationID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPlants) Create(ctx context.Context, plant *models.Plant) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPlantNames[plant.Name] {
		return fmt.Errorf("constraint violation")
	}
	plant.ID = s.id()
	s.plants = append(s.plants, plant)
	return nil
}

func (m *mockPlants) Update(ctx context.Context, plant *models.Plant) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.plants {
		if p.ID == plant.ID {
			s.plants[i] = plant
			return nil
		}
	}
	return fmt.Errorf("plant not found")
}

func (m *mockPlants) Delete(ctx context.Context, userID, id uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.plants {
		if p.UserID == userID && p.ID == id {
			s.plants = append(s.plants[:i], s.plants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockPlants) DeleteAllForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.Plant
	for _, p := range s.plants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	s.plants = kept
	return nil
}

type mockLocations mockStore

func (m *mockLocations) GetAll(ctx context.Context, userID uint) ([]models.Location, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Location
	for _, l := range s.locations {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLocations) FindByName(ctx context.Context, userID uint, name string) (*models.Location, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.locations {
		if l.UserID == userID && strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return nil, nil
}

func (m *mockLocations) Create(ctx context.Context, location *models.Location) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	location.ID = s.id()
	s.locations = append(s.locations, location)
	return nil
}

func (m *mockLocations) Delete(ctx context.Context, userID, id uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.locations {
		if l.UserID == userID && l.ID == id && !l.IsDefault {
			s.locations = append(s.locations[:i], s.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockLocations) DeleteNonDefaultForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.Location
	for _, l := range s.locations {
		if l.UserID != userID || l.IsDefault {
			kept = append(kept, l)
		}
	}
	s.locations = kept
	return nil
}

type mockWatering mockStore

func (m *mockWatering) GetAll(ctx context.Context, userID uint) ([]models.WateringEvent, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WateringEvent
	for _, e := range s.watering {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockWatering) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.WateringEvent, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WateringEvent
	for _, e := range s.watering {
		if e.UserID == userID && e.PlantID == plantID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockWatering) Create(ctx context.Context, event *models.WateringEvent) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.id()
	s.watering = append(s.watering, event)
	return nil
}

func (m *mockWatering) DeleteAllForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.WateringEvent
	for _, e := range s.watering {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	s.watering = kept
	return nil
}

type mockHealth mockStore

func (m *mockHealth) GetAll(ctx context.Context, userID uint) ([]models.HealthRecord, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HealthRecord
	for _, r := range s.health {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockHealth) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.HealthRecord, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HealthRecord
	for _, r := range s.health {
		if r.UserID == userID && r.PlantID == plantID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockHealth) Create(ctx context.Context, record *models.HealthRecord) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.id()
	s.health = append(s.health, record)
	return nil
}

func (m *mockHealth) DeleteAllForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.HealthRecord
	for _, r := range s.health {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	s.health = kept
	return nil
}

type mockCare mockStore

func (m *mockCare) GetAll(ctx context.Context, userID uint) ([]models.CareActivity, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CareActivity
	for _, a := range s.care {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockCare) GetForPlant(ctx context.Context, userID, plantID uint) ([]models.CareActivity, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CareActivity
	for _, a := range s.care {
		if a.UserID == userID && a.PlantID == plantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockCare) Create(ctx context.Context, activity *models.CareActivity) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	activity.ID = s.id()
	s.care = append(s.care, activity)
	return nil
}

func (m *mockCare) DeleteAllForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.CareActivity
	for _, a := range s.care {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	s.care = kept
	return nil
}

type mockNotifications mockStore

func (m *mockNotifications) Get(ctx context.Context, userID uint) (*models.NotificationSettings, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications[userID], nil
}

func (m *mockNotifications) Upsert(ctx context.Context, settings *models.NotificationSettings) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotifications {
		return fmt.Errorf("constraint violation")
	}
	s.notifications[settings.UserID] = settings
	return nil
}

func (m *mockNotifications) DeleteForUser(ctx context.Context, userID uint) error {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, userID)
	return nil
}

func (m *mockNotifications) DueForReminder(ctx context.Context, hour int) ([]models.NotificationSettings, error) {
	s := (*mockStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NotificationSettings
	for _, n := range s.notifications {
		if n.ReminderHour == hour && (n.EmailEnabled || n.PushEnabled) {
			out = append(out, *n)
		}
	}
	return out, nil
}

// mockBlobs is an in-memory storage.Storage.
type mockBlobs struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failUpload bool
}

func newMockBlobs() *mockBlobs {
	return &mockBlobs{objects: make(map[string][]byte)}
}

func (b *mockBlobs) blobKey(userID uint, key string) string {
	return fmt.Sprintf("user_%d/%s", userID, key)
}

func (b *mockBlobs) Upload(ctx context.Context, file io.Reader, userID uint, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUpload {
		return "", fmt.Errorf("blob store unavailable")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	b.objects[b.blobKey(userID, key)] = data
	return key, nil
}

func (b *mockBlobs) Open(ctx context.Context, userID uint, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[b.blobKey(userID, key)]
	if !ok {
		return nil, fmt.Errorf("no such object")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (b *mockBlobs) Exists(ctx context.Context, userID uint, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[b.blobKey(userID, key)]
	return ok, nil
}

func (b *mockBlobs) Delete(ctx context.Context, userID uint, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, b.blobKey(userID, key))
	return nil
}
