package session

import (
	"sync"

	"github.com/hupe1980/confcierge/core"
)

// InMemoryStore is a volatile Store keeping histories and plans in process
// local maps. Safe for concurrent access; values are copied on the way in and
// out. Best suited for tests and ephemeral demos.
type InMemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]core.Message
	plans     map[string][]PlanEntry
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		histories: map[string][]core.Message{},
		plans:     map[string][]PlanEntry{},
	}
}

// LoadHistory implements Store. Unknown conversations yield an empty history.
func (s *InMemoryStore) LoadHistory(conversationID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneMessages(s.histories[conversationID]), nil
}

// SaveHistory implements Store.
func (s *InMemoryStore) SaveHistory(conversationID string, history []core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[conversationID] = core.CloneMessages(history)
	return nil
}

// LoadPlan implements Store. Unknown conversations yield an empty plan.
func (s *InMemoryStore) LoadPlan(conversationID string) ([]PlanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan := s.plans[conversationID]
	out := make([]PlanEntry, len(plan))
	copy(out, plan)
	return out, nil
}

// SavePlan implements Store.
func (s *InMemoryStore) SavePlan(conversationID string, plan []PlanEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]PlanEntry, len(plan))
	copy(stored, plan)
	s.plans[conversationID] = stored
	return nil
}

var _ Store = (*InMemoryStore)(nil)
