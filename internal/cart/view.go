package cart

import "github.com/wichananm65/menu-assistant/internal/catalog"

const (
	LineTypeItem  = "item"
	LineTypeCombo = "combo"
)

// LineView is the wire form of a Line. Type says which of the two shapes
// the row carries.
type LineView struct {
	Type          string             `json:"type"`
	ItemID        string             `json:"item_id,omitempty"`
	ComboID       string             `json:"combo_id,omitempty"`
	UniqueID      string             `json:"uniqueId,omitempty"`
	Name          string             `json:"name"`
	Quantity      int                `json:"quantity"`
	IsPartOfCombo bool               `json:"isPartOfCombo,omitempty"`
	UnitPrice     float64            `json:"unit_price"`
	Subtotal      float64            `json:"subtotal"`
	ImageLinks    []string           `json:"image_links,omitempty"`
	ComboItems    []catalog.MenuItem `json:"combo_items,omitempty"`
}

type View struct {
	Lines []LineView `json:"lines"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

func NewView(c *Cart) View {
	lines := c.Lines()
	out := View{Lines: make([]LineView, 0, len(lines)), Count: c.Count(), Total: c.Total()}
	for _, l := range lines {
		out.Lines = append(out.Lines, NewLineView(l))
	}
	return out
}

func NewLineView(l Line) LineView {
	switch l := l.(type) {
	case *SimpleLine:
		v := LineView{
			Type:          LineTypeItem,
			ItemID:        l.ItemID,
			Name:          l.Item.Name,
			Quantity:      l.Quantity,
			IsPartOfCombo: l.PartOfCombo,
			UnitPrice:     l.Item.Price(),
			Subtotal:      l.Subtotal(),
		}
		if l.Item.ImageLink != "" {
			v.ImageLinks = []string{l.Item.ImageLink}
		}
		return v
	case *ComboLine:
		return LineView{
			Type:       LineTypeCombo,
			ComboID:    l.ComboID,
			UniqueID:   l.UniqueID,
			Name:       l.Combo.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.Combo.Price(),
			Subtotal:   l.Subtotal(),
			ImageLinks: l.ImageLinks,
			ComboItems: l.Items,
		}
	default:
		return LineView{}
	}
}
