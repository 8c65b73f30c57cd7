package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// CodeStore holds one pending verification code per phone number. Verify
// consumes the code when it matches.
type CodeStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// RedisCodeStore keeps codes under verify:<phone> and lets Redis expire them.
type RedisCodeStore struct {
	Client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{Client: client}
}

func (s *RedisCodeStore) Key(phone string) string {
	return "verify:" + phone
}

func (s *RedisCodeStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.Client.Set(ctx, s.Key(phone), code, ttl).Err(); err != nil {
		return errors.Wrap(err, "store verification code")
	}
	return nil
}

func (s *RedisCodeStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	want, err := s.Client.Get(ctx, s.Key(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "read verification code")
	}
	if !sameCode(want, code) {
		return false, nil
	}
	// single use
	if err := s.Client.Del(ctx, s.Key(phone)).Err(); err != nil {
		return false, errors.Wrap(err, "consume verification code")
	}
	return true, nil
}

type pendingCode struct {
	code    string
	expires time.Time
}

type InMemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]pendingCode
	now   func() time.Time
}

func NewInMemoryCodeStore() *InMemoryCodeStore {
	return &InMemoryCodeStore{codes: make(map[string]pendingCode), now: time.Now}
}

func (s *InMemoryCodeStore) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = pendingCode{code: code, expires: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryCodeStore) Verify(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.codes[phone]
	if !ok {
		return false, nil
	}
	if !s.now().Before(p.expires) {
		delete(s.codes, phone)
		return false, nil
	}
	if !sameCode(p.code, code) {
		return false, nil
	}
	delete(s.codes, phone)
	return true, nil
}

func sameCode(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// newCode returns a random six digit code.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", errors.Wrap(err, "generate verification code")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
