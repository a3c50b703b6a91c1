package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	sessionSweepInterval = time.Minute
)

// SessionStore keeps confirmation sessions in memory. All mutations go
// through Update so transitions on one session never interleave.
type SessionStore struct {
	sessions map[uuid.UUID]*Session
	mu       sync.Mutex
	ttl      time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Start runs the expiry sweeper until Stop.
func (s *SessionStore) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
	return nil
}

func (s *SessionStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *SessionStore) Create(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *SessionStore) Get(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id, time.Now())
	if err != nil {
		return nil, err
	}
	return session.snapshot(), nil
}

// Update applies fn atomically and returns the resulting snapshot. When fn
// fails the session is left as fn left it, which for the Session methods
// means unchanged.
func (s *SessionStore) Update(id uuid.UUID, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id, time.Now())
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return session.snapshot(), err
	}
	return session.snapshot(), nil
}

func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions. A session mid-submit is kept until the
// upload resolves.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.State != StateSubmitting && session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) lookup(id uuid.UUID, now time.Time) (*Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.State != StateSubmitting && session.Expired(now) {
		delete(s.sessions, id)
		return nil, ErrSessionExpired
	}
	return session, nil
}
