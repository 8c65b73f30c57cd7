package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

var (
	ErrEmptyQuery           = errors.New("query is empty")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrClosed               = errors.New("chat service closed")
)

// Asker resolves one query against the recommendation backend.
type Asker interface {
	Ask(ctx context.Context, query, chatID string) (Reply, error)
}

type session struct {
	chatID  string
	order   []string
	convs   map[string]*Conversation
	cancels map[string]context.CancelFunc
}

// Service keeps each user's conversation list. Every query gets an entry
// immediately; a background poll later resolves that same entry by id.
type Service struct {
	asker Asker
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[int]*session
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(asker Asker, log logrus.FieldLogger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		asker:    asker,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[int]*session),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit records a pending conversation and starts resolving it. The poll
// outlives ctx's deadline but keeps its values; Clear and Close stop it.
func (s *Service) Submit(ctx context.Context, userID int, query string) (Conversation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Conversation{}, ErrEmptyQuery
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Conversation{}, ErrClosed
	}
	sess := s.session(userID)
	conv := &Conversation{
		ID:        s.newID(),
		Query:     query,
		Items:     []catalog.MenuItem{},
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	sess.order = append(sess.order, conv.ID)
	sess.convs[conv.ID] = conv

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.ctx, cancel)
	sess.cancels[conv.ID] = cancel
	chatID := sess.chatID
	out := conv.clone()
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancel()
		reply, err := s.asker.Ask(pollCtx, query, chatID)
		s.resolve(userID, conv.ID, reply, err)
	}()

	return out, nil
}

func (s *Service) resolve(userID int, id string, reply Reply, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{"user": userID, "conversation": id})
	sess, ok := s.sessions[userID]
	if !ok {
		log.Debug("dropping result for cleared session")
		return
	}
	conv, ok := sess.convs[id]
	if !ok {
		log.Debug("dropping result for cleared conversation")
		return
	}
	delete(sess.cancels, id)

	if sess.chatID == "" && reply.ChatID != "" {
		sess.chatID = reply.ChatID
	}
	if err != nil {
		log.WithError(err).Warn("recommendation failed")
		msg := FailureMessage
		conv.Response = &msg
		conv.Status = StatusFailed
		return
	}
	text := reply.ResponseText
	conv.Response = &text
	if reply.Items != nil {
		conv.Items = reply.Items
	}
	conv.Status = StatusDone
	log.WithField("items", len(conv.Items)).Info("recommendation resolved")
}

// List returns the user's conversations in submission order.
func (s *Service) List(userID int) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return []Conversation{}
	}
	out := make([]Conversation, 0, len(sess.order))
	for _, id := range sess.order {
		out = append(out, sess.convs[id].clone())
	}
	return out
}

func (s *Service) Get(userID int, id string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		if conv, ok := sess.convs[id]; ok {
			return conv.clone(), nil
		}
	}
	return Conversation{}, ErrConversationNotFound
}

// ChatID is the backend session id learned from the first reply, if any.
func (s *Service) ChatID(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.chatID
	}
	return ""
}

// Clear forgets the user's conversations and backend session and cancels
// any poll still running for them.
func (s *Service) Clear(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return
	}
	for _, cancel := range sess.cancels {
		cancel()
	}
	delete(s.sessions, userID)
}

// Close cancels every running poll and waits for them to return.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

func (s *Service) session(userID int) *session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{
			convs:   make(map[string]*Conversation),
			cancels: make(map[string]context.CancelFunc),
		}
		s.sessions[userID] = sess
	}
	return sess
}
