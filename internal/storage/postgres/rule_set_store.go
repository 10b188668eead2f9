package postgres

import (
	"context"
	"fmt"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// RuleSetStore implements storage.RuleSetStore using PostgreSQL.
type RuleSetStore struct {
	pool *Pool
}

// NewRuleSetStore creates a new RuleSetStore.
func NewRuleSetStore(pool *Pool) *RuleSetStore {
	return &RuleSetStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RuleSetStore = (*RuleSetStore)(nil)

// Put stores the rule set, replacing any previous one for the account.
func (s *RuleSetStore) Put(ctx context.Context, rs *domain.RuleSet) error {
	if rs == nil || rs.AccountID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO rule_sets (account_id, rules, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET rules = EXCLUDED.rules, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, rs.AccountID, nonNil(rs.Rules), rs.UpdatedAt); err != nil {
		return fmt.Errorf("put rule set: %w", err)
	}
	return nil
}

// Get retrieves the rule set of an account. Returns ErrNotFound if not exists.
func (s *RuleSetStore) Get(ctx context.Context, accountID string) (*domain.RuleSet, error) {
	query := `SELECT account_id, rules, updated_at FROM rule_sets WHERE account_id = $1`

	var rs domain.RuleSet
	err := s.pool.QueryRow(ctx, query, accountID).Scan(&rs.AccountID, &rs.Rules, &rs.UpdatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get rule set: %w", err)
	}
	rs.UpdatedAt = rs.UpdatedAt.UTC()
	return &rs, nil
}
