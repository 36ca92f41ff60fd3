package records

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store used by tests, the seeder, and as
// a stand-in until the desktop app wires its own accessor.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cycles   map[string]*Cycle
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		cycles:   make(map[string]*Cycle),
	}
}

// PutSession inserts or replaces a session.
func (s *MemoryStore) PutSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Id] = session
}

// PutCycle inserts or replaces a cycle.
func (s *MemoryStore) PutCycle(cycle *Cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[cycle.Id] = cycle
}

// GetSession retrieves a session by id.
func (s *MemoryStore) GetSession(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// GetCycle retrieves a cycle by id.
func (s *MemoryStore) GetCycle(ctx context.Context, id string) (*Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cycle, ok := s.cycles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cycle, nil
}

// CyclesForSession returns a session's cycles ordered by start time.
func (s *MemoryStore) CyclesForSession(ctx context.Context, sessionID string) ([]*Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Cycle
	for _, cycle := range s.cycles {
		if cycle.SessionId == sessionID {
			result = append(result, cycle)
		}
	}
	slices.SortStableFunc(result, func(a, b *Cycle) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return result, nil
}

// RecentCompletedSessions returns up to limit completed sessions,
// most recent first.
func (s *MemoryStore) RecentCompletedSessions(ctx context.Context, limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Session
	for _, session := range s.sessions {
		if session.Completed() {
			result = append(result, session)
		}
	}
	slices.SortStableFunc(result, func(a, b *Session) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// RecentEndedCycles returns up to limit ended cycles, most recent first.
func (s *MemoryStore) RecentEndedCycles(ctx context.Context, limit int) ([]*Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Cycle
	for _, cycle := range s.cycles {
		if cycle.Ended() {
			result = append(result, cycle)
		}
	}
	slices.SortStableFunc(result, func(a, b *Cycle) int {
		return b.EndedAt.Compare(a.EndedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
