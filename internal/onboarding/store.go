package onboarding

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store remembers whether a user has finished the welcome flow. The flag
// only ever goes from unset to set.
type Store interface {
	Seen(ctx context.Context, userID int) (bool, error)
	MarkSeen(ctx context.Context, userID int) error
}

// RedisStore keeps the flag as onboarding:<user id> with no expiry.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Key(userID int) string {
	return "onboarding:" + strconv.Itoa(userID)
}

func (s *RedisStore) Seen(ctx context.Context, userID int) (bool, error) {
	n, err := s.Client.Exists(ctx, s.Key(userID)).Result()
	if err != nil {
		return false, errors.Wrap(err, "read onboarding flag")
	}
	return n > 0, nil
}

func (s *RedisStore) MarkSeen(ctx context.Context, userID int) error {
	if err := s.Client.Set(ctx, s.Key(userID), "1", 0).Err(); err != nil {
		return errors.Wrap(err, "write onboarding flag")
	}
	return nil
}

type InMemoryStore struct {
	mu   sync.RWMutex
	seen map[int]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[int]bool)}
}

func (s *InMemoryStore) Seen(_ context.Context, userID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen[userID], nil
}

func (s *InMemoryStore) MarkSeen(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[userID] = true
	return nil
}
