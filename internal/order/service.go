package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/cart"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidUser   = errors.New("invalid user")
	ErrOrderNotFound = errors.New("order not found")
)

// Service turns the user's cart into a receipt.
type Service struct {
	carts *cart.Service
	repo  Repository
	pub   Publisher
	codes PickupCoder
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(carts *cart.Service, repo Repository, pub Publisher, log logrus.FieldLogger) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Service{carts: carts, repo: repo, pub: pub, codes: QRPickupCoder{}, log: log, now: time.Now}
}

// WithPickupCoder replaces the coder used by PickupCode.
func (s *Service) WithPickupCoder(codes PickupCoder) *Service {
	s.codes = codes
	return s
}

// Checkout empties the cart into a stored receipt and announces it. The
// cart is restored if the receipt cannot be stored; a failed announcement
// is logged and does not undo the order.
func (s *Service) Checkout(ctx context.Context, userID int) (Receipt, error) {
	if userID <= 0 {
		return Receipt{}, ErrInvalidUser
	}
	taken, err := s.carts.Take(userID)
	if err != nil {
		return Receipt{}, err
	}
	if taken.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}

	view := cart.NewView(taken)
	rc := Receipt{
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Lines:     view.Lines,
		Quantity:  view.Count,
		Subtotal:  view.Total,
		Status:    StatusPlaced,
		CreatedAt: s.now().UTC(),
	}
	log := s.log.WithFields(logrus.Fields{"user": userID, "order": rc.OrderID})

	created, err := s.repo.Create(rc)
	if err != nil {
		if rerr := s.carts.Restore(userID, taken); rerr != nil {
			log.WithError(rerr).Error("could not restore cart after failed checkout")
		}
		return Receipt{}, err
	}
	if err := s.pub.PublishOrder(ctx, created); err != nil {
		log.WithError(err).Warn("order placed but not published")
	}
	log.WithFields(logrus.Fields{"quantity": created.Quantity, "subtotal": created.Subtotal}).Info("order placed")
	return created, nil
}

func (s *Service) List(userID int) ([]Receipt, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.repo.ListByUser(userID)
}

// PickupCode renders the pickup QR for one of the user's own orders.
func (s *Service) PickupCode(userID int, orderID string) ([]byte, error) {
	orders, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	for _, rc := range orders {
		if rc.OrderID == orderID {
			return s.codes.Encode(rc.OrderID)
		}
	}
	return nil, ErrOrderNotFound
}
