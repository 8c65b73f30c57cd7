package order

import "sync"

// Repository defines persistence operations for receipts.
type Repository interface {
	Create(r Receipt) (Receipt, error)
	// ListByUser returns the user's receipts, oldest first.
	ListByUser(userID int) ([]Receipt, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	receipts []Receipt
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(rc Receipt) (Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, rc)
	return rc, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Receipt, 0)
	for _, rc := range r.receipts {
		if rc.UserID == userID {
			out = append(out, rc)
		}
	}
	return out, nil
}
