package memory

import (
	"context"
	"sync"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// RuleSetStore is an in-memory implementation of storage.RuleSetStore.
type RuleSetStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RuleSet // keyed by account_id
}

// NewRuleSetStore creates a new in-memory rule set store.
func NewRuleSetStore() *RuleSetStore {
	return &RuleSetStore{
		data: make(map[string]*domain.RuleSet),
	}
}

// Put stores the rule set, replacing any previous one for the account.
func (s *RuleSetStore) Put(_ context.Context, rs *domain.RuleSet) error {
	if rs == nil || rs.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *rs
	c.Rules = append([]string(nil), rs.Rules...)
	s.data[rs.AccountID] = &c
	return nil
}

// Get retrieves the rule set of an account. Returns ErrNotFound if not exists.
func (s *RuleSetStore) Get(_ context.Context, accountID string) (*domain.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	c := *rs
	c.Rules = append([]string(nil), rs.Rules...)
	return &c, nil
}

var _ storage.RuleSetStore = (*RuleSetStore)(nil)
