package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trading-journal/internal/api"
	"trading-journal/internal/config"
	cronrunner "trading-journal/internal/cron"
	"trading-journal/internal/fixtures"
	"trading-journal/internal/logger"
	"trading-journal/internal/metrics"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
	chstore "trading-journal/internal/storage/clickhouse"
	"trading-journal/internal/storage/memory"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
)

// stores holds the storage implementations selected by configuration.
type stores struct {
	trades    storage.TradeStore
	rules     storage.RuleSetStore
	snapshots storage.SnapshotStore
	checks    map[string]api.Pinger
	accounts  []string // default cron accounts
	cleanup   func()
}

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := observability.NewMetrics(nil, "")

	st, err := createStores(ctx, log, cfg)
	if err != nil {
		log.Fatal("create stores failed", zap.Error(err))
	}
	defer st.cleanup()

	agg := metrics.NewAggregator(
		storage.InstrumentTradeStore(st.trades, backend(cfg.Postgres.DSN, "postgres"), m),
		storage.InstrumentRuleSetStore(st.rules, backend(cfg.Postgres.DSN, "postgres"), m),
		storage.InstrumentSnapshotStore(st.snapshots, backend(cfg.Clickhouse.DSN, "clickhouse"), m),
		metrics.WithLogger(log),
		metrics.WithMetrics(m),
		metrics.WithBins(cfg.Analytics.PnLBins, cfg.Analytics.RBins),
	)

	router := api.NewRouter(api.RouterOptions{
		Analytics: agg,
		Checks:    st.checks,
		Metrics:   m,
		Logger:    log,
		Debug:     strings.EqualFold(cfg.App.Env, "dev"),
	})

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cronRunner := cronrunner.New(log, ctx)
	if cfg.Cron.Enabled {
		accounts := cfg.Cron.Accounts
		if len(accounts) == 0 {
			accounts = st.accounts
		}
		if len(accounts) == 0 {
			log.Warn("cron enabled without accounts; snapshot job not scheduled")
		} else if _, err := cronRunner.Add("snapshot", cfg.Cron.Snapshot, cronrunner.SnapshotJob(agg, accounts, log)); err != nil {
			log.Fatal("cron register snapshot failed", zap.String("spec", cfg.Cron.Snapshot), zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func backend(dsn, name string) string {
	if dsn == "" {
		return "memory"
	}
	return name
}

// createStores connects the configured databases, running migrations first.
// Without a Postgres DSN the trade and rule stores are in memory, seeded with the demo journal.
func createStores(ctx context.Context, log *zap.Logger, cfg config.Config) (*stores, error) {
	st := &stores{checks: map[string]api.Pinger{}, cleanup: func() {}}

	if cfg.Postgres.DSN == "" {
		trades, rules := memory.NewTradeStore(), memory.NewRuleSetStore()
		if err := fixtures.LoadFixtures(ctx, trades, rules); err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		st.trades, st.rules = trades, rules
		st.accounts = []string{fixtures.AccountID}
		log.Info("using in-memory trade store with demo journal", zap.String("account", fixtures.AccountID))
	} else {
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Info("postgres ready", zap.Strings("migrations_applied", applied))

		st.trades = pgstore.NewTradeStore(pool)
		st.rules = pgstore.NewRuleSetStore(pool)
		st.checks["postgres"] = pool.Ping
		st.cleanup = pool.Close
	}

	if cfg.Clickhouse.DSN == "" {
		st.snapshots = memory.NewSnapshotStore()
		return st, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
	if err != nil {
		st.cleanup()
		return nil, fmt.Errorf("clickhouse migrations: %w", err)
	}
	log.Info("clickhouse ready")

	st.snapshots = chstore.NewSnapshotStore(conn)
	st.checks["clickhouse"] = conn.Ping
	pgCleanup := st.cleanup
	st.cleanup = func() {
		conn.Close()
		pgCleanup()
	}
	return st, nil
}
