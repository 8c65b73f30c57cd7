package order

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

// PickupCodeSize is the edge length in pixels of the pickup QR image.
const PickupCodeSize = 256

// PickupCoder renders the code the counter scans to hand over an order.
type PickupCoder interface {
	Encode(orderID string) ([]byte, error)
}

// QRPickupCoder encodes BaseURL/orders/<id>, or the bare order id when no
// base URL is set, as a PNG.
type QRPickupCoder struct {
	BaseURL string
}

func (g QRPickupCoder) Encode(orderID string) ([]byte, error) {
	data := orderID
	if base := strings.TrimRight(g.BaseURL, "/"); base != "" {
		data = base + "/orders/" + orderID
	}
	png, err := qrcode.Encode(data, qrcode.Medium, PickupCodeSize)
	if err != nil {
		return nil, errors.Wrap(err, "encode pickup code")
	}
	return png, nil
}
