package storage

import (
	"context"
	"time"

	"trading-journal/internal/domain"
)

// TradeStore provides access to journal trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if (account_id, id) exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, accountID, tradeID string) (*domain.Trade, error)

	// GetByAccount retrieves all trades for an account, ordered by date ASC, id ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Trade, error)

	// GetByDateRange retrieves trades for an account with date within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Trade, error)
}

// RuleSetStore provides access to the canonical rule list per account.
type RuleSetStore interface {
	// Put stores the rule set, replacing any previous one for the account.
	Put(ctx context.Context, rs *domain.RuleSet) error

	// Get retrieves the rule set of an account. Returns ErrNotFound if not exists.
	Get(ctx context.Context, accountID string) (*domain.RuleSet, error)
}

// SnapshotStore provides access to analytics_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.AnalyticsSnapshot) error

	// GetLatest retrieves the most recent snapshot of an account. Returns ErrNotFound if none.
	GetLatest(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error)

	// GetByAccount retrieves all snapshots of an account, ordered by computed_at ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.AnalyticsSnapshot, error)
}
