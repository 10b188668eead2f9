package clickhouse

import (
	"context"
	"fmt"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const selectSnapshotColumns = `
	SELECT
		snapshot_id, account_id, computed_at,
		total_trades, wins, losses, win_rate_pct,
		total_r, net_pnl, profit_factor, expectancy,
		max_drawdown_r, max_drawdown_pct, recovery_factor,
		discipline_pct, radar_score
	FROM analytics_snapshots
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.AnalyticsSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.AccountID == "" {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness; check explicitly for append-only semantics
	exists, err := s.exists(ctx, snap.SnapshotID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO analytics_snapshots (
			snapshot_id, account_id, computed_at,
			total_trades, wins, losses, win_rate_pct,
			total_r, net_pnl, profit_factor, expectancy,
			max_drawdown_r, max_drawdown_pct, recovery_factor,
			discipline_pct, radar_score
		) VALUES (
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?
		)
	`

	err = s.conn.Exec(ctx, query,
		snap.SnapshotID, snap.AccountID, snap.ComputedAt,
		int64(snap.TotalTrades), int64(snap.Wins), int64(snap.Losses), snap.WinRatePercent,
		snap.TotalR, snap.NetPnL, float64(snap.ProfitFactor), snap.Expectancy,
		snap.MaxDrawdownR, snap.MaxDrawdownPct, float64(snap.RecoveryFactor),
		snap.DisciplinePercent, snap.RadarScore,
	)
	if err != nil {
		return fmt.Errorf("insert analytics snapshot: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent snapshot of an account. Returns ErrNotFound if none.
func (s *SnapshotStore) GetLatest(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error) {
	query := selectSnapshotColumns + `
		WHERE account_id = ?
		ORDER BY computed_at DESC, snapshot_id DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	snaps, err := scanSnapshots(rows)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, storage.ErrNotFound
	}
	return snaps[0], nil
}

// GetByAccount retrieves all snapshots of an account, ordered by computed_at ASC.
func (s *SnapshotStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.AnalyticsSnapshot, error) {
	query := selectSnapshotColumns + `
		WHERE account_id = ?
		ORDER BY computed_at ASC, snapshot_id ASC
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by account: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// exists checks if a snapshot with the given id exists.
func (s *SnapshotStore) exists(ctx context.Context, snapshotID string) (bool, error) {
	query := `SELECT count(*) FROM analytics_snapshots WHERE snapshot_id = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, snapshotID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSnapshots scans multiple rows into a slice.
func scanSnapshots(rows chRows) ([]*domain.AnalyticsSnapshot, error) {
	var snaps []*domain.AnalyticsSnapshot

	for rows.Next() {
		var (
			snap                 domain.AnalyticsSnapshot
			total, wins, losses  int64
			profitFactor, recFac float64
		)
		err := rows.Scan(
			&snap.SnapshotID, &snap.AccountID, &snap.ComputedAt,
			&total, &wins, &losses, &snap.WinRatePercent,
			&snap.TotalR, &snap.NetPnL, &profitFactor, &snap.Expectancy,
			&snap.MaxDrawdownR, &snap.MaxDrawdownPct, &recFac,
			&snap.DisciplinePercent, &snap.RadarScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snap.TotalTrades = int(total)
		snap.Wins = int(wins)
		snap.Losses = int(losses)
		snap.ProfitFactor = domain.Ratio(profitFactor)
		snap.RecoveryFactor = domain.Ratio(recFac)
		snap.ComputedAt = snap.ComputedAt.UTC()
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snaps, nil
}
