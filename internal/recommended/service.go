package recommended

import (
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

var ErrTooManyPinned = errors.New("at most 2 items can be pinned")

// Service ranks and samples the catalog.
type Service struct {
	repo catalog.Repository
	intn func(n int) int
}

func NewService(repo catalog.Repository) *Service {
	return &Service{repo: repo, intn: rand.IntN}
}

// NewServiceWithRand uses intn in place of the global random source.
func NewServiceWithRand(repo catalog.Repository, intn func(n int) int) *Service {
	return &Service{repo: repo, intn: intn}
}

// TopRated returns up to `limit` items ordered by rating desc, starting at
// `offset`. Unrated items sort last; ties break on item id.
func (s *Service) TopRated(limit int, offset int) []catalog.MenuItem {
	items := s.repo.Items()
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Rating, items[j].Rating
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri > *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return items[i].ID < items[j].ID
	})
	if offset >= len(items) {
		return []catalog.MenuItem{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Roll returns the pinned items followed by random picks costing at most
// maxCost, RollSize in total. maxCost <= 0 means any price. Fewer items are
// returned when the menu runs out of candidates.
func (s *Service) Roll(maxCost float64, pinned []string) ([]catalog.MenuItem, error) {
	out := make([]catalog.MenuItem, 0, RollSize)
	seen := map[string]bool{}
	for _, id := range pinned {
		if seen[id] {
			continue
		}
		it, err := s.repo.Item(id)
		if err != nil {
			return nil, err
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	if len(out) > MaxPinned {
		return nil, ErrTooManyPinned
	}

	eligible := make([]catalog.MenuItem, 0)
	for _, it := range s.repo.Items() {
		if seen[it.ID] {
			continue
		}
		if maxCost > 0 && (it.Cost == nil || *it.Cost > maxCost) {
			continue
		}
		eligible = append(eligible, it)
	}
	for len(out) < RollSize && len(eligible) > 0 {
		i := s.intn(len(eligible))
		out = append(out, eligible[i])
		eligible = append(eligible[:i], eligible[i+1:]...)
	}
	return out, nil
}

// Prompts returns the starter prompts.
func (s *Service) Prompts() []Prompt {
	return append([]Prompt(nil), starterPrompts...)
}
