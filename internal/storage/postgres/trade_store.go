package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeQuery = `
	INSERT INTO trades (
		account_id, id, symbol, direction,
		trade_date, entry_time, result, rr,
		pnl, account_size, mistakes, rules_followed, notes
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11, $12, $13
	)
`

const selectTradeColumns = `
	SELECT
		account_id, id, symbol, direction,
		trade_date, entry_time, result, rr,
		pnl, account_size, mistakes, rules_followed, notes
	FROM trades
`

func insertArgs(t *domain.Trade) []any {
	return []any{
		t.AccountID, t.ID, t.Symbol, t.Direction,
		t.Date, t.EntryTime, string(t.Result), t.RR,
		t.PnL, t.AccountSize, nonNil(t.Mistakes), nonNil(t.RulesFollowed), t.Notes,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Insert adds a new trade. Returns ErrDuplicateKey if (account_id, id) exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" || t.AccountID == "" || !t.Result.Valid() {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery, insertArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	for _, t := range trades {
		if t == nil || t.ID == "" || t.AccountID == "" || !t.Result.Valid() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if _, err := tx.Exec(ctx, insertTradeQuery, insertArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, accountID, tradeID string) (*domain.Trade, error) {
	query := selectTradeColumns + `WHERE account_id = $1 AND id = $2`

	t, err := scanTrade(s.pool.QueryRow(ctx, query, accountID, tradeID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByAccount retrieves all trades for an account, ordered by date ASC, id ASC.
func (s *TradeStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.Trade, error) {
	query := selectTradeColumns + `
		WHERE account_id = $1
		ORDER BY trade_date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get trades by account: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByDateRange retrieves trades for an account with date within [start, end] (inclusive).
func (s *TradeStore) GetByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Trade, error) {
	query := selectTradeColumns + `
		WHERE account_id = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trades by date range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrade scans a single row into a Trade.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		t      domain.Trade
		result string
	)

	err := row.Scan(
		&t.AccountID, &t.ID, &t.Symbol, &t.Direction,
		&t.Date, &t.EntryTime, &result, &t.RR,
		&t.PnL, &t.AccountSize, &t.Mistakes, &t.RulesFollowed, &t.Notes,
	)
	if err != nil {
		return nil, err
	}

	t.Result = domain.Result(result)
	t.Date = t.Date.UTC()
	return &t, nil
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
