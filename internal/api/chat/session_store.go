package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// Session is one chat conversation. asking serialises questions and guards
// history; mu guards the transcript so it stays readable while a question runs.
type Session struct {
	ID       string
	asking   sync.Mutex
	mu       sync.Mutex
	messages []types.ChatMessage
	history  History
}

func (s *Session) appendMessage(role types.ChatRole, content string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, types.ChatMessage{Role: role, Content: content, Timestamp: now})
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ChatMessage(nil), s.messages...)
}

// SessionStore keeps sessions in memory with a sliding expiry.
type SessionStore struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{
		cache: cache.New(ttl, ttl/2),
		now:   time.Now,
	}
}

// Create opens a session seeded with the assistant greeting.
func (st *SessionStore) Create() *Session {
	s := &Session{ID: uuid.NewString()}
	s.appendMessage(types.RoleAssistant, greeting, st.now())
	st.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Get returns the session and refreshes its expiry.
func (st *SessionStore) Get(id string) (*Session, error) {
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, types.ErrSessionNotFound)
	}
	s := v.(*Session)
	st.cache.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

func (st *SessionStore) Delete(id string) {
	st.cache.Delete(id)
}

func (st *SessionStore) Count() int {
	return st.cache.ItemCount()
}
