package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trading-journal/internal/domain"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
)

// Window bounds the trades an Aggregator loads. Both ends are inclusive.
// A zero From or To leaves that side unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the window is unbounded on both sides.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// ErrSnapshotsDisabled is returned by snapshot operations when no snapshot store is configured.
var ErrSnapshotsDisabled = errors.New("snapshot store not configured")

var (
	minTime = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Aggregator computes performance reports for accounts from stored trades.
type Aggregator struct {
	tradeStore    storage.TradeStore
	ruleSetStore  storage.RuleSetStore
	snapshotStore storage.SnapshotStore

	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	pnlBins int
	rBins   int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) AggregatorOption {
	return func(a *Aggregator) { a.logger = l }
}

// WithMetrics enables Prometheus recording.
func WithMetrics(m *observability.Metrics) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// WithIDGenerator overrides the snapshot id generator (uuid v4 by default).
func WithIDGenerator(gen func() string) AggregatorOption {
	return func(a *Aggregator) { a.newID = gen }
}

// WithBins sets the default histogram bin counts.
func WithBins(pnlBins, rBins int) AggregatorOption {
	return func(a *Aggregator) {
		a.pnlBins = pnlBins
		a.rBins = rBins
	}
}

// NewAggregator creates a new analytics aggregator.
// snapshotStore may be nil when snapshots are not persisted.
func NewAggregator(tradeStore storage.TradeStore, ruleSetStore storage.RuleSetStore, snapshotStore storage.SnapshotStore, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		tradeStore:    tradeStore,
		ruleSetStore:  ruleSetStore,
		snapshotStore: snapshotStore,
		logger:        zap.NewNop(),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Bins returns the default P&L and R histogram bin counts.
func (a *Aggregator) Bins() (pnlBins, rBins int) {
	return a.pnlBins, a.rBins
}

// ComputeReport loads trades and the rule set of accountID and analyzes them.
// A missing rule set is treated as an empty rule list. Zero trades yield the neutral report.
func (a *Aggregator) ComputeReport(ctx context.Context, accountID string, w Window) (*domain.PerformanceReport, error) {
	return a.ComputeReportWithBins(ctx, accountID, w, a.pnlBins, a.rBins)
}

// ComputeReportWithBins is ComputeReport with explicit histogram bin counts.
func (a *Aggregator) ComputeReportWithBins(ctx context.Context, accountID string, w Window, pnlBins, rBins int) (*domain.PerformanceReport, error) {
	if accountID == "" {
		return nil, storage.ErrInvalidInput
	}
	start := a.now()

	trades, err := a.loadTrades(ctx, accountID, w)
	if err != nil {
		a.record("error", 0, start)
		return nil, err
	}

	rules, err := a.loadRules(ctx, accountID)
	if err != nil {
		a.record("error", 0, start)
		return nil, err
	}

	report := Analyze(trades, Options{Rules: rules, PnLBinCount: pnlBins, RBinCount: rBins})
	a.record("ok", len(trades), start)

	a.logger.Debug("report computed",
		zap.String("account", accountID),
		zap.Int("trades", len(trades)),
		zap.Int("rules", len(rules)),
	)
	return report, nil
}

// ComputeAndStore computes the full-history report of accountID and persists its snapshot.
func (a *Aggregator) ComputeAndStore(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error) {
	if a.snapshotStore == nil {
		return nil, ErrSnapshotsDisabled
	}

	report, err := a.ComputeReport(ctx, accountID, Window{})
	if err != nil {
		return nil, err
	}

	snap := Snapshot(accountID, report)
	snap.SnapshotID = a.newID()
	snap.ComputedAt = a.now().UTC()

	if err := a.snapshotStore.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot for %s: %w", accountID, err)
	}
	if a.metrics != nil {
		a.metrics.RecordSnapshot(accountID, float64(snap.ComputedAt.Unix()))
	}

	a.logger.Info("snapshot stored",
		zap.String("account", accountID),
		zap.String("snapshot_id", snap.SnapshotID),
		zap.Int("trades", snap.TotalTrades),
		zap.Float64("total_r", snap.TotalR),
	)
	return snap, nil
}

// Snapshots returns the stored snapshots of accountID, oldest first.
func (a *Aggregator) Snapshots(ctx context.Context, accountID string) ([]*domain.AnalyticsSnapshot, error) {
	if a.snapshotStore == nil {
		return nil, ErrSnapshotsDisabled
	}
	return a.snapshotStore.GetByAccount(ctx, accountID)
}

// RuleSet returns the canonical rule list of accountID, empty when none is stored.
func (a *Aggregator) RuleSet(ctx context.Context, accountID string) ([]string, error) {
	return a.loadRules(ctx, accountID)
}

func (a *Aggregator) loadTrades(ctx context.Context, accountID string, w Window) ([]*domain.Trade, error) {
	if w.IsZero() {
		trades, err := a.tradeStore.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("load trades for %s: %w", accountID, err)
		}
		return trades, nil
	}

	from, to := w.From, w.To
	if from.IsZero() {
		from = minTime
	}
	if to.IsZero() {
		to = maxTime
	}
	trades, err := a.tradeStore.GetByDateRange(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load trades for %s in window: %w", accountID, err)
	}
	return trades, nil
}

func (a *Aggregator) loadRules(ctx context.Context, accountID string) ([]string, error) {
	if a.ruleSetStore == nil {
		return nil, nil
	}
	rs, err := a.ruleSetStore.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load rule set for %s: %w", accountID, err)
	}
	return rs.Rules, nil
}

func (a *Aggregator) record(status string, trades int, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordReport(status, trades, a.now().Sub(start).Seconds())
}
