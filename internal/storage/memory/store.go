// Package memory holds an in-memory store used by unit tests and local
// experiments. It mirrors the Postgres store's constraint behavior,
// including uniqueness conflicts on insert and update.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/storage"
)

var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.DestinationStore = (*Store)(nil)
)

// Store keeps users and destinations in process memory.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]models.User
	destinations map[int64]models.Destination
	nextUserID   int64
	nextDestID   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:        make(map[int64]models.User),
		destinations: make(map[int64]models.Destination),
		nextUserID:   1,
		nextDestID:   1,
	}
}

// CreateUser inserts a user, enforcing username and email uniqueness.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return user, nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// UsernameOrEmailTaken reports whether either credential is in use.
func (s *Store) UsernameOrEmailTaken(_ context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// EmailTakenByOther reports whether the email belongs to a different user.
func (s *Store) EmailTakenByOther(_ context.Context, email string, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email && user.ID != id {
			return true, nil
		}
	}
	return false, nil
}

// UpdateProfile persists name and email for the user.
func (s *Store) UpdateProfile(_ context.Context, id int64, name, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	for _, other := range s.users {
		if other.ID != id && other.Email == email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.Name = name
	user.Email = email
	s.users[id] = user
	return user, nil
}

// UpdatePasswordHash overwrites the stored password hash.
func (s *Store) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.PasswordHash = hash
	s.users[id] = user
	return nil
}

// DeleteUser removes a user row outright. The HTTP surface never does
// this; tests use it to simulate a record vanishing mid-session.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// AddDestination inserts a catalog entry and returns it with an id.
func (s *Store) AddDestination(d models.Destination) models.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.nextDestID
	s.nextDestID++
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	s.destinations[d.ID] = d
	return d
}

// ListDestinations returns the catalog ordered by name.
func (s *Store) ListDestinations(_ context.Context) ([]models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PopularDestinations returns the newest six entries.
func (s *Store) PopularDestinations(_ context.Context) ([]models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > 6 {
		out = out[:6]
	}
	return out, nil
}

// FindDestination fetches one catalog entry.
func (s *Store) FindDestination(_ context.Context, id int64) (models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.destinations[id]
	if !ok {
		return models.Destination{}, storage.ErrNotFound
	}
	return d, nil
}
