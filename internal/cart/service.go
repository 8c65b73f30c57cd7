package cart

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

var ErrInvalidUser = errors.New("invalid user")

// Service resolves catalog ids and applies cart operations for a user.
type Service struct {
	repo    Repository
	catalog catalog.Repository
	log     logrus.FieldLogger
}

func NewService(repo Repository, cat catalog.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, catalog: cat, log: log}
}

func (s *Service) GetCart(userID int) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.repo.Get(userID), nil
}

func (s *Service) AddItem(userID int, itemID string, partOfCombo bool) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	it, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": userID, "item": it.ID}).Debug("adding item to cart")
	return s.repo.Update(userID, func(c *Cart) error {
		return c.Add(ItemCandidate{Item: it, PartOfCombo: partOfCombo})
	})
}

// RemoveItem decrements by id alone so items that left the catalog can
// still be taken out of a cart.
func (s *Service) RemoveItem(userID int, itemID string) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.repo.Update(userID, func(c *Cart) error {
		return c.Remove(ItemCandidate{Item: catalog.MenuItem{ID: itemID}})
	})
}

func (s *Service) AddCombo(userID int, comboID string) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	cb, err := s.catalog.Combo(comboID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": userID, "combo": cb.ID}).Debug("adding combo to cart")
	return s.repo.Update(userID, func(c *Cart) error {
		return c.Add(ComboCandidate{Combo: cb})
	})
}

func (s *Service) RemoveCombo(userID int, comboID string) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.repo.Update(userID, func(c *Cart) error {
		return c.Remove(ComboCandidate{Combo: catalog.Combo{ID: comboID}})
	})
}

func (s *Service) ClearCart(userID int) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	_, err := s.repo.Update(userID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// Take empties the cart and hands back what it held, in one step.
func (s *Service) Take(userID int) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	var taken *Cart
	_, err := s.repo.Update(userID, func(c *Cart) error {
		taken = c.Clone()
		c.Clear()
		return nil
	})
	return taken, err
}

// Restore puts previously taken contents back, e.g. after a failed checkout.
func (s *Service) Restore(userID int, taken *Cart) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	if taken == nil || taken.IsEmpty() {
		return nil
	}
	_, err := s.repo.Update(userID, func(c *Cart) error {
		c.Merge(taken.Lines())
		return nil
	})
	return err
}
