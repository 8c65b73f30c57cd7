package order

import (
	"time"

	"github.com/wichananm65/menu-assistant/internal/cart"
)

const StatusPlaced = "placed"

// Receipt is what checkout produces from a cart. No payment is taken.
type Receipt struct {
	OrderID   string          `json:"orderId"`
	UserID    int             `json:"userId"`
	Lines     []cart.LineView `json:"lines"`
	Quantity  int             `json:"quantity"`
	Subtotal  float64         `json:"subtotal"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
