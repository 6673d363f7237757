package conversation

import (
	"context"
	"sync"

	"github.com/smallnest/leadscout/schema"
)

// MemoryStore is an in-process Store for tests and single-node runs.
type MemoryStore struct {
	mu      sync.RWMutex
	turns   map[string][]schema.ConversationTurn
	pending map[string]PendingConfirmation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		turns:   make(map[string][]schema.ConversationTurn),
		pending: make(map[string]PendingConfirmation),
	}
}

// AppendTurn adds one turn to the conversation.
func (s *MemoryStore) AppendTurn(ctx context.Context, conversationID string, turn schema.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[conversationID] = append(s.turns[conversationID], turn)
	return nil
}

// Turns returns a copy of the transcript in append order.
func (s *MemoryStore) Turns(ctx context.Context, conversationID string) ([]schema.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.turns[conversationID]
	out := make([]schema.ConversationTurn, len(stored))
	copy(out, stored)
	return out, nil
}

// SavePending records an email-lookup offer.
func (s *MemoryStore) SavePending(ctx context.Context, conversationID string, pending PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[conversationID] = pending
	return nil
}

// LoadPending returns the current offer, or nil when there is none.
func (s *MemoryStore) LoadPending(ctx context.Context, conversationID string) (*PendingConfirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending, ok := s.pending[conversationID]
	if !ok {
		return nil, nil
	}
	out := pending
	return &out, nil
}

// ClearPending removes the current offer.
func (s *MemoryStore) ClearPending(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, conversationID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
