package ingestion

import (
	"context"

	"trading-journal/internal/domain"
)

// Export is the content of one journal export.
type Export struct {
	Trades []*domain.Trade
	Rules  []string // canonical rule list, nil when the export carries none
}

// TradeSource provides journal trades from an external export.
type TradeSource interface {
	// Load returns the trades of the export. Trades may be unordered;
	// Manager enforces deterministic ordering.
	Load(ctx context.Context) (*Export, error)
}
