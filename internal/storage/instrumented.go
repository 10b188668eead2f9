package storage

import (
	"context"
	"errors"
	"time"

	"trading-journal/internal/domain"
)

// QueryRecorder receives one sample per store call.
// *observability.Metrics implements it.
type QueryRecorder interface {
	RecordDBQuery(database, operation string, seconds float64, err error)
}

// observe times one call. ErrNotFound is an answer, not a failure.
func observe(rec QueryRecorder, database, operation string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	rec.RecordDBQuery(database, operation, time.Since(start).Seconds(), err)
}

type instrumentedTradeStore struct {
	next     TradeStore
	database string
	rec      QueryRecorder
}

// InstrumentTradeStore wraps s so every call is recorded under database.
func InstrumentTradeStore(s TradeStore, database string, rec QueryRecorder) TradeStore {
	return &instrumentedTradeStore{next: s, database: database, rec: rec}
}

func (s *instrumentedTradeStore) Insert(ctx context.Context, t *domain.Trade) (err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "trade_insert", start, err) }(time.Now())
	return s.next.Insert(ctx, t)
}

func (s *instrumentedTradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) (err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "trade_insert_bulk", start, err) }(time.Now())
	return s.next.InsertBulk(ctx, trades)
}

func (s *instrumentedTradeStore) GetByID(ctx context.Context, accountID, tradeID string) (t *domain.Trade, err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "trade_get", start, err) }(time.Now())
	return s.next.GetByID(ctx, accountID, tradeID)
}

func (s *instrumentedTradeStore) GetByAccount(ctx context.Context, accountID string) (ts []*domain.Trade, err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "trade_list", start, err) }(time.Now())
	return s.next.GetByAccount(ctx, accountID)
}

func (s *instrumentedTradeStore) GetByDateRange(ctx context.Context, accountID string, start, end time.Time) (ts []*domain.Trade, err error) {
	defer func(t0 time.Time) { observe(s.rec, s.database, "trade_range", t0, err) }(time.Now())
	return s.next.GetByDateRange(ctx, accountID, start, end)
}

type instrumentedRuleSetStore struct {
	next     RuleSetStore
	database string
	rec      QueryRecorder
}

// InstrumentRuleSetStore wraps s so every call is recorded under database.
func InstrumentRuleSetStore(s RuleSetStore, database string, rec QueryRecorder) RuleSetStore {
	return &instrumentedRuleSetStore{next: s, database: database, rec: rec}
}

func (s *instrumentedRuleSetStore) Put(ctx context.Context, rs *domain.RuleSet) (err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "rule_set_put", start, err) }(time.Now())
	return s.next.Put(ctx, rs)
}

func (s *instrumentedRuleSetStore) Get(ctx context.Context, accountID string) (rs *domain.RuleSet, err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "rule_set_get", start, err) }(time.Now())
	return s.next.Get(ctx, accountID)
}

type instrumentedSnapshotStore struct {
	next     SnapshotStore
	database string
	rec      QueryRecorder
}

// InstrumentSnapshotStore wraps s so every call is recorded under database.
func InstrumentSnapshotStore(s SnapshotStore, database string, rec QueryRecorder) SnapshotStore {
	return &instrumentedSnapshotStore{next: s, database: database, rec: rec}
}

func (s *instrumentedSnapshotStore) Insert(ctx context.Context, snap *domain.AnalyticsSnapshot) (err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "snapshot_insert", start, err) }(time.Now())
	return s.next.Insert(ctx, snap)
}

func (s *instrumentedSnapshotStore) GetLatest(ctx context.Context, accountID string) (snap *domain.AnalyticsSnapshot, err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "snapshot_latest", start, err) }(time.Now())
	return s.next.GetLatest(ctx, accountID)
}

func (s *instrumentedSnapshotStore) GetByAccount(ctx context.Context, accountID string) (snaps []*domain.AnalyticsSnapshot, err error) {
	defer func(start time.Time) { observe(s.rec, s.database, "snapshot_list", start, err) }(time.Now())
	return s.next.GetByAccount(ctx, accountID)
}
