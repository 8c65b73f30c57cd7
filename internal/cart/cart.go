package cart

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

// ErrMissingID is returned when a candidate carries no item or combo id.
var ErrMissingID = errors.New("cart candidate has no identifier")

// Line is one row of the cart: either a *SimpleLine or a *ComboLine.
// The set is closed; switch on the concrete type.
type Line interface {
	Qty() int
	Subtotal() float64
	line()
}

// SimpleLine is a plain item with a quantity.
type SimpleLine struct {
	ItemID      string
	Item        catalog.MenuItem
	Quantity    int
	PartOfCombo bool
}

// ComboLine is a whole combo with a quantity. Items and ImageLinks are a
// snapshot taken when the line was first added; later adds only bump
// Quantity and never refresh the snapshot.
type ComboLine struct {
	ComboID    string
	UniqueID   string
	Combo      catalog.Combo
	Items      []catalog.MenuItem
	ImageLinks []string
	Quantity   int
}

func (l *SimpleLine) Qty() int          { return l.Quantity }
func (l *SimpleLine) Subtotal() float64 { return l.Item.Price() * float64(l.Quantity) }
func (*SimpleLine) line()               {}

func (l *ComboLine) Qty() int          { return l.Quantity }
func (l *ComboLine) Subtotal() float64 { return l.Combo.Price() * float64(l.Quantity) }
func (*ComboLine) line()               {}

// Candidate is what the caller asks to add or remove: an ItemCandidate or
// a ComboCandidate.
type Candidate interface {
	candidate()
}

// ItemCandidate adds or removes a single item. PartOfCombo marks items
// that may only be ordered through their combo; it is recorded when the
// line is created.
type ItemCandidate struct {
	Item        catalog.MenuItem
	PartOfCombo bool
}

type ComboCandidate struct {
	Combo catalog.Combo
}

func (ItemCandidate) candidate()  {}
func (ComboCandidate) candidate() {}

// Cart holds the lines of one session. It is not safe for concurrent use;
// Store serializes access.
type Cart struct {
	lines []Line
	newID func() string
}

func New() *Cart {
	return &Cart{newID: uuid.NewString}
}

// Add inserts a line with quantity 1, or increments the existing line for
// the same item or combo.
func (c *Cart) Add(cand Candidate) error {
	switch cand := cand.(type) {
	case ItemCandidate:
		id := strings.TrimSpace(cand.Item.ID)
		if id == "" {
			return ErrMissingID
		}
		if l := c.simple(id); l != nil {
			l.Quantity++
			return nil
		}
		c.lines = append(c.lines, &SimpleLine{
			ItemID:      id,
			Item:        cand.Item,
			Quantity:    1,
			PartOfCombo: cand.PartOfCombo,
		})
		return nil
	case ComboCandidate:
		id := strings.TrimSpace(cand.Combo.ID)
		if id == "" {
			return ErrMissingID
		}
		if l := c.combo(id); l != nil {
			l.Quantity++
			return nil
		}
		items := make([]catalog.MenuItem, len(cand.Combo.Items))
		copy(items, cand.Combo.Items)
		images := make([]string, len(cand.Combo.ImageLinks))
		copy(images, cand.Combo.ImageLinks)
		c.lines = append(c.lines, &ComboLine{
			ComboID:    id,
			UniqueID:   c.generateID(),
			Combo:      cand.Combo,
			Items:      items,
			ImageLinks: images,
			Quantity:   1,
		})
		return nil
	default:
		return ErrMissingID
	}
}

// Remove decrements the matching line and drops it when the quantity would
// reach zero. Removing something that is not in the cart does nothing.
func (c *Cart) Remove(cand Candidate) error {
	var idx int
	switch cand := cand.(type) {
	case ItemCandidate:
		id := strings.TrimSpace(cand.Item.ID)
		if id == "" {
			return ErrMissingID
		}
		idx = c.indexOfSimple(id)
	case ComboCandidate:
		id := strings.TrimSpace(cand.Combo.ID)
		if id == "" {
			return ErrMissingID
		}
		idx = c.indexOfCombo(id)
	default:
		return ErrMissingID
	}
	if idx < 0 {
		return nil
	}

	switch l := c.lines[idx].(type) {
	case *SimpleLine:
		if l.Quantity > 1 {
			l.Quantity--
			return nil
		}
	case *ComboLine:
		if l.Quantity > 1 {
			l.Quantity--
			return nil
		}
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return nil
}

// Merge folds lines back into the cart, summing quantities where a line for
// the same item or combo already exists. Combo lines keep their original
// snapshot and UniqueID when inserted.
func (c *Cart) Merge(lines []Line) {
	for _, l := range lines {
		switch l := l.(type) {
		case *SimpleLine:
			if cur := c.simple(l.ItemID); cur != nil {
				cur.Quantity += l.Quantity
				continue
			}
		case *ComboLine:
			if cur := c.combo(l.ComboID); cur != nil {
				cur.Quantity += l.Quantity
				continue
			}
		default:
			continue
		}
		c.lines = append(c.lines, copyLine(l))
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Quantity is the quantity of the simple line for the item, or 0.
func (c *Cart) Quantity(itemID string) int {
	if l := c.simple(itemID); l != nil {
		return l.Quantity
	}
	return 0
}

// ComboQuantity is the quantity of the combo line, or 0.
func (c *Cart) ComboQuantity(comboID string) int {
	if l := c.combo(comboID); l != nil {
		return l.Quantity
	}
	return 0
}

// IsPartOfCombo reports whether the item's simple line is combo-locked.
func (c *Cart) IsPartOfCombo(itemID string) bool {
	if l := c.simple(itemID); l != nil {
		return l.PartOfCombo
	}
	return false
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, copyLine(l))
	}
	return out
}

// Count is the sum of all line quantities.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty()
	}
	return n
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines(), newID: c.newID}
}

func (c *Cart) generateID() string {
	if c.newID == nil {
		return uuid.NewString()
	}
	return c.newID()
}

func (c *Cart) simple(id string) *SimpleLine {
	if i := c.indexOfSimple(id); i >= 0 {
		return c.lines[i].(*SimpleLine)
	}
	return nil
}

func (c *Cart) combo(id string) *ComboLine {
	if i := c.indexOfCombo(id); i >= 0 {
		return c.lines[i].(*ComboLine)
	}
	return nil
}

func (c *Cart) indexOfSimple(id string) int {
	for i, l := range c.lines {
		if s, ok := l.(*SimpleLine); ok && s.ItemID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfCombo(id string) int {
	for i, l := range c.lines {
		if cl, ok := l.(*ComboLine); ok && cl.ComboID == id {
			return i
		}
	}
	return -1
}

func copyLine(l Line) Line {
	switch l := l.(type) {
	case *SimpleLine:
		cp := *l
		return &cp
	case *ComboLine:
		cp := *l
		cp.Items = append([]catalog.MenuItem(nil), l.Items...)
		cp.ImageLinks = append([]string(nil), l.ImageLinks...)
		return &cp
	default:
		return l
	}
}
