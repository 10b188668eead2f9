package ingestion

import (
	"errors"
	"sort"

	"trading-journal/internal/domain"
)

// ErrInvalidOrdering is returned when trades are not properly ordered.
var ErrInvalidOrdering = errors.New("trades are not in deterministic order")

// SortTrades orders trades by (account_id ASC, date ASC, id ASC).
func SortTrades(trades []*domain.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return compareTrades(trades[i], trades[j]) < 0
	})
}

// ValidateTradeOrdering checks if trades are strictly ordered.
// Returns ErrInvalidOrdering if not.
func ValidateTradeOrdering(trades []*domain.Trade) error {
	for i := 1; i < len(trades); i++ {
		if compareTrades(trades[i-1], trades[i]) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// compareTrades returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func compareTrades(a, b *domain.Trade) int {
	if a.AccountID != b.AccountID {
		if a.AccountID < b.AccountID {
			return -1
		}
		return 1
	}
	if !a.Date.Equal(b.Date) {
		if a.Date.Before(b.Date) {
			return -1
		}
		return 1
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	return 0
}
