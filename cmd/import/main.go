package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trading-journal/internal/config"
	"trading-journal/internal/ingestion"
	"trading-journal/internal/logger"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Journal export to import (.csv or .json)")
	account := flag.String("account", "", "Account ID the trades belong to")
	postgresDSN := flag.String("postgres-dsn", cfg.Postgres.DSN, "PostgreSQL connection string")
	timezone := flag.String("timezone", "UTC", "IANA time zone for export dates without an offset")
	skipDuplicates := flag.Bool("skip-duplicates", false, "Skip trades already stored instead of failing the import")
	flag.Parse()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *input == "" || *account == "" {
		log.Fatal("--input and --account are required")
	}
	if *postgresDSN == "" {
		log.Fatal("--postgres-dsn (or TJ_POSTGRES_DSN) is required")
	}
	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatal("invalid --timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := run(ctx, log, *postgresDSN, *input, *account, loc, *skipDuplicates)
	if err != nil {
		log.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %s into account %s:\n", *input, *account)
	fmt.Printf("  loaded:     %d\n", stats.Loaded)
	fmt.Printf("  inserted:   %d\n", stats.Inserted)
	fmt.Printf("  duplicates: %d\n", stats.Duplicates)
	fmt.Printf("  rules:      %t\n", stats.RulesSaved)
}

func run(ctx context.Context, log *zap.Logger, dsn, input, account string, loc *time.Location, skipDuplicates bool) (ingestion.Stats, error) {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return ingestion.Stats{}, err
	}
	defer pool.Close()

	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		return ingestion.Stats{}, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Info("migrations applied", zap.Strings("files", applied))
	}

	src, format, err := ingestion.NewFileSource(input, account, loc)
	if err != nil {
		return ingestion.Stats{}, err
	}

	m := observability.NewMetrics(nil, "")
	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		TradeStore:   storage.InstrumentTradeStore(pgstore.NewTradeStore(pool), "postgres", m),
		RuleSetStore: storage.InstrumentRuleSetStore(pgstore.NewRuleSetStore(pool), "postgres", m),
		Metrics:      m,
		Logger:       log,
	})
	return mgr.Ingest(ctx, src, format, skipDuplicates)
}
