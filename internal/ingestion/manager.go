package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trading-journal/internal/domain"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
)

// Manager orchestrates ingestion from a journal export to storage.
// It enforces deterministic ordering and uses storage layer for duplicate rejection.
type Manager struct {
	tradeStore   storage.TradeStore
	ruleSetStore storage.RuleSetStore

	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	TradeStore   storage.TradeStore
	RuleSetStore storage.RuleSetStore // optional; receives rules carried by the export

	Metrics *observability.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// Stats summarizes one ingestion run.
type Stats struct {
	Loaded     int
	Inserted   int
	Duplicates int
	RulesSaved bool
}

// NewManager creates a new ingestion manager.
func NewManager(opts ManagerOptions) *Manager {
	m := &Manager{
		tradeStore:   opts.TradeStore,
		ruleSetStore: opts.RuleSetStore,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Ingest loads the export and stores its trades.
// With skipDuplicates, trades already stored are counted and skipped; otherwise
// the batch is inserted atomically and any duplicate fails the whole run.
func (m *Manager) Ingest(ctx context.Context, src TradeSource, format string, skipDuplicates bool) (Stats, error) {
	if m.tradeStore == nil {
		return Stats{}, fmt.Errorf("trade store not configured")
	}

	exp, err := src.Load(ctx)
	if err != nil {
		m.recordRejected(format, "parse")
		return Stats{}, err
	}

	stats := Stats{Loaded: len(exp.Trades)}
	if len(exp.Trades) > 0 {
		for _, t := range exp.Trades {
			if t.AccountID == "" {
				m.recordRejected(format, "no_account")
				return stats, fmt.Errorf("trade %s: %w: account id is required", t.ID, storage.ErrInvalidInput)
			}
		}

		// Enforce deterministic ordering
		SortTrades(exp.Trades)

		if skipDuplicates {
			err = m.insertEach(ctx, exp.Trades, &stats)
		} else {
			err = m.tradeStore.InsertBulk(ctx, exp.Trades)
			if err == nil {
				stats.Inserted = len(exp.Trades)
			}
		}
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				m.recordRejected(format, "duplicate")
			}
			return stats, fmt.Errorf("store trades: %w", err)
		}
	}

	if len(exp.Rules) > 0 && m.ruleSetStore != nil {
		if err := m.saveRules(ctx, exp.Trades, exp.Rules); err != nil {
			return stats, err
		}
		stats.RulesSaved = true
	}

	if m.metrics != nil {
		rejected := map[string]int{}
		if stats.Duplicates > 0 {
			rejected["duplicate"] = stats.Duplicates
		}
		m.metrics.RecordImport(format, stats.Inserted, rejected)
	}

	m.logger.Info("journal imported",
		zap.String("format", format),
		zap.Int("loaded", stats.Loaded),
		zap.Int("inserted", stats.Inserted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Bool("rules_saved", stats.RulesSaved),
	)
	return stats, nil
}

func (m *Manager) insertEach(ctx context.Context, trades []*domain.Trade, stats *Stats) error {
	for _, t := range trades {
		err := m.tradeStore.Insert(ctx, t)
		switch {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			stats.Duplicates++
		default:
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}
	return nil
}

// saveRules stores the export's rule list for every account it contains.
func (m *Manager) saveRules(ctx context.Context, trades []*domain.Trade, rules []string) error {
	accounts := make(map[string]struct{})
	for _, t := range trades {
		accounts[t.AccountID] = struct{}{}
	}
	for account := range accounts {
		rs := &domain.RuleSet{AccountID: account, Rules: rules, UpdatedAt: m.now().UTC()}
		if err := m.ruleSetStore.Put(ctx, rs); err != nil {
			return fmt.Errorf("store rule set for %s: %w", account, err)
		}
	}
	return nil
}

func (m *Manager) recordRejected(format, reason string) {
	if m.metrics != nil {
		m.metrics.RecordImport(format, 0, map[string]int{reason: 1})
	}
}
