package cart

import "sync"

// Repository holds one cart per user. Update runs fn with exclusive access
// to the user's cart and returns a snapshot taken after fn.
type Repository interface {
	Get(userID int) *Cart
	Update(userID int, fn func(*Cart) error) (*Cart, error)
}

// InMemoryRepository keeps carts for the lifetime of the process only.
type InMemoryRepository struct {
	mu    sync.Mutex
	carts map[int]*Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]*Cart)}
}

func (r *InMemoryRepository) Get(userID int) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		return c.Clone()
	}
	return New()
}

func (r *InMemoryRepository) Update(userID int, fn func(*Cart) error) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = New()
		r.carts[userID] = c
	}
	err := fn(c)
	if c.IsEmpty() {
		delete(r.carts, userID)
	}
	return c.Clone(), err
}
