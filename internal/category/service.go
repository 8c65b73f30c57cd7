package category

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

var ErrNotFound = errors.New("category not found")

// Service groups the catalog by category.
type Service struct {
	menu *catalog.Service
}

func NewService(repo catalog.Repository) *Service {
	return &Service{menu: catalog.NewService(repo)}
}

// List returns up to limit categories sorted by name. The image is the
// first item image found in the category.
func (s *Service) List(limit int) []Category {
	groups := s.menu.GroupByCategory()
	out := make([]Category, 0, len(groups))
	for _, name := range s.menu.Categories() {
		if limit > 0 && len(out) >= limit {
			break
		}
		items := groups[name]
		cat := Category{Name: name, ItemCount: len(items)}
		for _, it := range items {
			if it.ImageLink != "" {
				img := it.ImageLink
				cat.Image = &img
				break
			}
		}
		out = append(out, cat)
	}
	return out
}

// Items returns the items of one category, matched case-insensitively.
func (s *Service) Items(name string) ([]catalog.MenuItem, error) {
	for key, items := range s.menu.GroupByCategory() {
		if strings.EqualFold(key, strings.TrimSpace(name)) {
			return items, nil
		}
	}
	return nil, ErrNotFound
}
