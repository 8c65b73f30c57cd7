package catalog

import (
	"sort"
	"strings"
)

// Filter holds the browse flags. Zero values disable a flag.
type Filter struct {
	Term       string
	VegOnly    bool
	NonVegOnly bool
	MinRating  float64
	MaxCost    float64
	Category   string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Items() []MenuItem {
	return s.repo.Items()
}

func (s *Service) Combos() []Combo {
	return s.repo.Combos()
}

func (s *Service) Item(id string) (MenuItem, error) {
	return s.repo.Item(id)
}

func (s *Service) Combo(id string) (Combo, error) {
	return s.repo.Combo(id)
}

func (s *Service) CombosForItem(id string) ([]Combo, error) {
	if _, err := s.repo.Item(id); err != nil {
		return nil, err
	}
	return s.repo.CombosForItem(id), nil
}

// Search matches the term case-insensitively against name and description.
// An empty term returns every item.
func (s *Service) Search(term string) []MenuItem {
	return s.Filter(Filter{Term: term})
}

// Filter applies every enabled flag. Setting both VegOnly and NonVegOnly
// yields nothing. Items with no rating never pass a MinRating, and items
// with no cost never pass a MaxCost.
func (s *Service) Filter(f Filter) []MenuItem {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	out := make([]MenuItem, 0)
	for _, it := range s.repo.Items() {
		if term != "" &&
			!strings.Contains(strings.ToLower(it.Name), term) &&
			!strings.Contains(strings.ToLower(it.Description), term) {
			continue
		}
		if f.VegOnly && !it.IsVeg() {
			continue
		}
		if f.NonVegOnly && it.VegOrNonVeg != NonVeg {
			continue
		}
		if f.MinRating > 0 && (it.Rating == nil || *it.Rating < f.MinRating) {
			continue
		}
		if f.MaxCost > 0 && (it.Cost == nil || *it.Cost > f.MaxCost) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// GroupByCategory buckets items by category; uncategorised items land
// under "Other". Item order inside a bucket follows the catalog.
func (s *Service) GroupByCategory() map[string][]MenuItem {
	groups := make(map[string][]MenuItem)
	for _, it := range s.repo.Items() {
		key := it.Category
		if key == "" {
			key = "Other"
		}
		groups[key] = append(groups[key], it)
	}
	return groups
}

// Categories returns the sorted category names.
func (s *Service) Categories() []string {
	groups := s.GroupByCategory()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
