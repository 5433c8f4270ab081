// Package session holds per-client editing state: the loaded document and
// its stamp overlay. Sessions are in-memory and expire after a period of
// inactivity.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"stampapi/internal/model"
	"stampapi/internal/overlay"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 30 * time.Minute

// janitorInterval controls how often expired sessions are swept.
const janitorInterval = time.Minute

// Session is one client's workspace. Handlers funnel all access through the
// service layer, which locks the session around each operation.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	document   *model.DocumentModel
	overlay    *overlay.Store
	lastAccess time.Time
}

// Lock serializes access to the session's mutable state.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Document returns the loaded document, or nil. Callers must hold the lock.
func (s *Session) Document() *model.DocumentModel { return s.document }

// SetDocument replaces the loaded document. Callers must hold the lock.
func (s *Session) SetDocument(doc *model.DocumentModel) { s.document = doc }

// Overlay returns the session's stamp registry. Callers must hold the lock.
func (s *Session) Overlay() *overlay.Store { return s.overlay }

// Touch refreshes the idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// Store manages session lifecycle.
type Store interface {
	Create() *Session
	Get(id string) (*Session, error)
	Delete(id string) error
	Len() int
	Close()
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store whose janitor evicts sessions
// idle longer than ttl. A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &memoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
	go s.janitor()
	return s
}

func (s *memoryStore) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		overlay:    overlay.New(),
		lastAccess: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *memoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.Touch()
	return sess, nil
}

func (s *memoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor goroutine.
func (s *memoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *memoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) evictExpired() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.lastAccess.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
		}
	}
}
