package stats

import (
	"sync"
	"time"
)

// Store keeps per-operation counters in memory.
type Store struct {
	mu         sync.RWMutex
	operations map[string]*OperationStats
	since      time.Time
}

// NewStore creates an empty counter store.
func NewStore() *Store {
	return &Store{
		operations: make(map[string]*OperationStats),
		since:      time.Now(),
	}
}

// RecordSuccess counts a successful calculation.
func (s *Store) RecordSuccess(operation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(operation).Succeeded++
}

// RecordFailure counts a failed calculation.
func (s *Store) RecordFailure(operation string, divByZero bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(operation)
	e.Failed++
	if divByZero {
		e.DivisionByZero++
	}
}

// entry must be called with mu held.
func (s *Store) entry(operation string) *OperationStats {
	e, ok := s.operations[operation]
	if !ok {
		e = &OperationStats{}
		s.operations[operation] = e
	}
	return e
}

// Snapshot returns a copy of the current counters.
func (s *Store) Snapshot() StatsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatsResponse{
		Operations: make(map[string]OperationStats, len(s.operations)),
		Since:      s.since.UTC().Format(time.RFC3339),
	}
	for name, e := range s.operations {
		resp.Operations[name] = *e
		resp.Total += e.Succeeded + e.Failed
		resp.Failed += e.Failed
	}
	return resp
}
