package favorite

import (
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrAlreadyFavorite = errors.New("item already in favorites")
	ErrNotFavorite     = errors.New("item not in favorites")
)

// Repository stores favorite item ids per user, in the order they were added.
type Repository interface {
	AddFavorite(userID int, itemID string, updatedAt string) ([]string, error)
	RemoveFavorite(userID int, itemID string, updatedAt string) ([]string, error)
	GetFavorites(userID int) ([]string, error)
}

// InMemoryRepository is used for tests and local scenarios. Any positive
// user id is accepted.
type InMemoryRepository struct {
	mu   sync.RWMutex
	favs map[int][]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{favs: make(map[int][]string)}
}

func (r *InMemoryRepository) AddFavorite(userID int, itemID string, _ string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.favs[userID] {
		if id == itemID {
			return nil, ErrAlreadyFavorite
		}
	}
	r.favs[userID] = append(r.favs[userID], itemID)
	return append([]string{}, r.favs[userID]...), nil
}

func (r *InMemoryRepository) RemoveFavorite(userID int, itemID string, _ string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := false
	next := make([]string, 0, len(r.favs[userID]))
	for _, id := range r.favs[userID] {
		if id == itemID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		return nil, ErrNotFavorite
	}
	r.favs[userID] = next
	return append([]string{}, next...), nil
}

func (r *InMemoryRepository) GetFavorites(userID int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.favs[userID]...), nil
}
