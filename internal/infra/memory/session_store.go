package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"health-advisory-chat/internal/domain"
	"health-advisory-chat/internal/domain/model"
	"health-advisory-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps every session in process memory for the lifetime
// of the process. A single mutex serializes all mutations; insertion
// order is tracked so deletion fallback and sort tie-breaks stay
// deterministic.
type SessionStore struct {
	mu       sync.RWMutex
	byID     map[string]*model.ChatSession
	order    []string // insertion order of session ids
	activeID string
}

// NewSessionStore builds a store seeded with one empty active session.
func NewSessionStore() *SessionStore {
	s := &SessionStore{byID: make(map[string]*model.ChatSession)}
	s.createLocked()
	return s
}

func (s *SessionStore) Create(ctx context.Context) *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.createLocked())
}

// createLocked allocates a session id, inserts the session and makes it
// active. Callers must hold the lock.
func (s *SessionStore) createLocked() *model.ChatSession {
	id := ulid.Make().String()
	sess := model.NewChatSession(id)
	s.byID[id] = sess
	s.order = append(s.order, id)
	s.activeID = id
	return sess
}

func (s *SessionStore) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	s.activeID = id
	return nil
}

func (s *SessionStore) Active(ctx context.Context) (*model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[s.activeID]
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return cloneSession(sess), nil
}

func (s *SessionStore) FindByID(ctx context.Context, id string) (*model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

func (s *SessionStore) AppendUserMessage(ctx context.Context, sessionID, content string) (model.Message, error) {
	return s.append(sessionID, model.SenderUser, content)
}

func (s *SessionStore) AppendBotMessage(ctx context.Context, sessionID, content string) (model.Message, error) {
	return s.append(sessionID, model.SenderBot, content)
}

func (s *SessionStore) append(sessionID string, sender model.Sender, content string) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[sessionID]
	if !ok {
		return model.Message{}, domain.ErrSessionNotFound
	}
	msg := model.NewMessage(uuid.NewString(), sender, content)
	sess.AppendMessage(msg)
	return msg, nil
}

func (s *SessionStore) EditMessage(ctx context.Context, sessionID, messageID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if !sess.EditMessage(messageID, content) {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (s *SessionStore) DeleteMessage(ctx context.Context, sessionID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if !sess.RemoveMessage(messageID) {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID != id {
		return nil
	}
	// The deleted session was active: fall back to the oldest remaining
	// session, or create a replacement so the store never ends up empty.
	if len(s.order) > 0 {
		s.activeID = s.order[0]
	} else {
		s.createLocked()
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context) []model.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SessionSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func cloneSession(sess *model.ChatSession) *model.ChatSession {
	cp := *sess
	cp.Messages = make([]model.Message, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	return &cp
}
