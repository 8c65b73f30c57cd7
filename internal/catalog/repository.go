package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrItemNotFound  = errors.New("menu item not found")
	ErrComboNotFound = errors.New("combo not found")
)

//go:embed data/*.json
var bundled embed.FS

// Source supplies the raw catalog once at startup.
type Source interface {
	LoadItems(ctx context.Context) ([]MenuItem, error)
	LoadCombos(ctx context.Context) ([]Combo, error)
}

// Repository is the read-only view of the catalog used by the rest of the app.
type Repository interface {
	Items() []MenuItem
	Combos() []Combo
	Item(id string) (MenuItem, error)
	Combo(id string) (Combo, error)
	CombosForItem(id string) []Combo
}

// BundledSource reads the data files compiled into the binary.
type BundledSource struct{}

func (BundledSource) LoadItems(_ context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := readBundled("data/items.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (BundledSource) LoadCombos(_ context.Context) ([]Combo, error) {
	var combos []Combo
	if err := readBundled("data/combos.json", &combos); err != nil {
		return nil, err
	}
	return combos, nil
}

func readBundled(name string, v any) error {
	raw, err := bundled.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "read %s", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	return nil
}

// Catalog is the immutable, in-memory catalog. It is built once by Load and
// only read afterwards, so it needs no locking.
type Catalog struct {
	items      []MenuItem
	combos     []Combo
	itemByID   map[string]int
	comboByID  map[string]int
	comboIndex map[string][]string
}

// Load reads the source and resolves combo constituents against the items.
// Items without an id are skipped; the first occurrence of a duplicate id wins.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	items, err := src.LoadItems(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load menu items")
	}
	combos, err := src.LoadCombos(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load combos")
	}
	return New(items, combos), nil
}

// New builds a catalog from already-decoded records.
func New(items []MenuItem, combos []Combo) *Catalog {
	c := &Catalog{
		items:      make([]MenuItem, 0, len(items)),
		combos:     make([]Combo, 0, len(combos)),
		itemByID:   make(map[string]int, len(items)),
		comboByID:  make(map[string]int, len(combos)),
		comboIndex: make(map[string][]string),
	}

	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := c.itemByID[it.ID]; dup {
			continue
		}
		c.itemByID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}

	for _, cb := range combos {
		if cb.ID == "" {
			continue
		}
		if _, dup := c.comboByID[cb.ID]; dup {
			continue
		}
		if len(cb.ItemIDs) > 0 {
			resolved := make([]MenuItem, 0, len(cb.ItemIDs))
			for _, id := range cb.ItemIDs {
				if idx, ok := c.itemByID[id]; ok {
					resolved = append(resolved, c.items[idx])
				}
			}
			cb.Items = resolved
		}
		if cb.DiscountPercentage == 0 {
			cb.DiscountPercentage = cb.DiscountPercent()
		}
		if cb.Tier == "" {
			cb.Tier = TierStandard
		}
		c.comboByID[cb.ID] = len(c.combos)
		c.combos = append(c.combos, cb)

		seen := map[string]bool{}
		for _, it := range cb.Items {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			c.comboIndex[it.ID] = append(c.comboIndex[it.ID], cb.ID)
		}
	}

	for id, ids := range c.comboIndex {
		sort.Strings(ids)
		c.comboIndex[id] = ids
	}
	return c
}

func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Combos() []Combo {
	out := make([]Combo, len(c.combos))
	copy(out, c.combos)
	return out
}

func (c *Catalog) Item(id string) (MenuItem, error) {
	idx, ok := c.itemByID[strings.TrimSpace(id)]
	if !ok {
		return MenuItem{}, ErrItemNotFound
	}
	return c.items[idx], nil
}

func (c *Catalog) Combo(id string) (Combo, error) {
	idx, ok := c.comboByID[strings.TrimSpace(id)]
	if !ok {
		return Combo{}, ErrComboNotFound
	}
	return c.combos[idx], nil
}

// CombosForItem lists the combos containing the item, by combo id.
func (c *Catalog) CombosForItem(id string) []Combo {
	ids := c.comboIndex[id]
	out := make([]Combo, 0, len(ids))
	for _, cid := range ids {
		out = append(out, c.combos[c.comboByID[cid]])
	}
	return out
}
