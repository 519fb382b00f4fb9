package memory

import (
	"sync"
	"time"

	"github.com/PabloGalante/sequential-thinking/internal/domain"
)

// sessionEntry guards one session. writeMu serializes writers (append, clear)
// for their whole read-build-append sequence; mu protects the data itself and
// is only held briefly, so readers never wait on a slow builder.
type sessionEntry struct {
	writeMu sync.Mutex

	mu      sync.RWMutex
	session *domain.ThinkingSession
}

// SessionStore keeps thinking sessions in process memory.
// It is NOT persistent: everything is lost when the process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*sessionEntry
	order    []domain.SessionID
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*sessionEntry),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Meant for tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) GetOrCreateSession(id domain.SessionID) (*domain.ThinkingSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		// Another writer may have won the race between the two locks.
		entry, ok = s.sessions[id]
		if !ok {
			now := s.now()
			entry = &sessionEntry{
				session: &domain.ThinkingSession{
					ID:        id,
					Thoughts:  []domain.Thought{},
					CreatedAt: now,
					UpdatedAt: now,
				},
			}
			s.sessions[id] = entry
			s.order = append(s.order, id)
		}
		s.mu.Unlock()
	}

	return entry.snapshot(), nil
}

func (s *SessionStore) GetSession(id domain.SessionID) (*domain.ThinkingSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return entry.snapshot(), nil
}

// ListSessions returns every known session in creation order.
func (s *SessionStore) ListSessions() ([]domain.SessionInfo, error) {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.sessions[id])
	}
	s.mu.RUnlock()

	out := make([]domain.SessionInfo, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		out = append(out, e.session.Info())
		e.mu.RUnlock()
	}
	return out, nil
}

// ClearSession drops all thoughts but keeps the session registered.
func (s *SessionStore) ClearSession(id domain.SessionID) (*domain.ThinkingSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.writeMu.Lock()
	defer entry.writeMu.Unlock()

	entry.mu.Lock()
	entry.session.Thoughts = []domain.Thought{}
	entry.session.UpdatedAt = s.now()
	entry.mu.Unlock()

	return entry.snapshot(), nil
}

func (s *SessionStore) AppendThought(id domain.SessionID, build domain.ThoughtBuilder) (domain.Thought, error) {
	entry, err := s.entry(id)
	if err != nil {
		return domain.Thought{}, err
	}

	entry.writeMu.Lock()
	defer entry.writeMu.Unlock()

	entry.mu.RLock()
	prior := make([]domain.Thought, len(entry.session.Thoughts))
	copy(prior, entry.session.Thoughts)
	entry.mu.RUnlock()

	thought := build(len(prior)+1, prior)

	entry.mu.Lock()
	entry.session.Thoughts = append(entry.session.Thoughts, thought)
	entry.session.UpdatedAt = s.now()
	entry.mu.Unlock()

	return thought, nil
}

func (s *SessionStore) entry(id domain.SessionID) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

func (e *sessionEntry) snapshot() *domain.ThinkingSession {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Clone()
}
