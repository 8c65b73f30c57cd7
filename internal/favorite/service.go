package favorite

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

type Service struct {
	repo    Repository
	catalog catalog.Repository
	log     logrus.FieldLogger
}

func NewService(repo Repository, cat catalog.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, catalog: cat, log: log}
}

func (s *Service) AddFavorite(userID int, itemID string) ([]string, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	if _, err := s.catalog.Item(itemID); err != nil {
		return nil, err
	}
	return s.repo.AddFavorite(userID, itemID, now())
}

// RemoveFavorite does not consult the catalog so stale ids can be dropped.
func (s *Service) RemoveFavorite(userID int, itemID string) ([]string, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.RemoveFavorite(userID, itemID, now())
}

// Toggle flips the favorite state of the item and reports the new state.
func (s *Service) Toggle(userID int, itemID string) (bool, []string, error) {
	ids, err := s.AddFavorite(userID, itemID)
	if errors.Is(err, ErrAlreadyFavorite) {
		ids, err = s.RemoveFavorite(userID, itemID)
		return false, ids, err
	}
	if err != nil {
		return false, nil, err
	}
	return true, ids, nil
}

// GetFavorites resolves the stored ids against the catalog. Ids that are
// no longer on the menu are skipped.
func (s *Service) GetFavorites(userID int) ([]catalog.MenuItem, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	ids, err := s.repo.GetFavorites(userID)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.MenuItem, 0, len(ids))
	for _, id := range ids {
		it, err := s.catalog.Item(id)
		if err != nil {
			s.log.WithFields(logrus.Fields{"user": userID, "item": id}).Debug("favorite no longer on the menu")
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
