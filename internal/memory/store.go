// Package memory implements the conversation store behind
// domain.MemoryStore: a bounded in-process map for the default single
// instance deployment, and a Redis-backed variant for when history should
// survive the process or be shared across instances.
package memory

import (
	"context"
	"sync"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// InMemoryStore keeps per-user history in a process-wide map. History is lost
// on restart and never shared across instances; that is the documented
// contract of the store, not a defect.
type InMemoryStore struct {
	mu    sync.Mutex
	cap   int
	turns map[int64][]domain.Turn
}

// NewInMemoryStore creates a store holding at most limit turns per user,
// oldest evicted first.
func NewInMemoryStore(limit int) *InMemoryStore {
	if limit < 1 {
		limit = 1
	}
	return &InMemoryStore{
		cap:   limit,
		turns: make(map[int64][]domain.Turn),
	}
}

func (s *InMemoryStore) Get(_ context.Context, userID int64) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.turns[userID]
	if len(history) == 0 {
		return nil
	}
	out := make([]domain.Turn, len(history))
	copy(out, history)
	return out
}

func (s *InMemoryStore) Append(_ context.Context, userID int64, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.turns[userID], turn)
	if len(history) > s.cap {
		history = history[len(history)-s.cap:]
	}
	s.turns[userID] = history
}

func (s *InMemoryStore) Clear(_ context.Context, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, userID)
}
