package metrics

import (
	"time"

	"trading-journal/internal/domain"
)

// march returns the given day of March 2024 (a Friday on the 1st) at midnight UTC.
func march(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func win(id string, d int, rr float64) *domain.Trade {
	return &domain.Trade{ID: id, Date: march(d), Result: domain.ResultWin, RR: rr}
}

func loss(id string, d int) *domain.Trade {
	return &domain.Trade{ID: id, Date: march(d), Result: domain.ResultLoss}
}

func withPnL(t *domain.Trade, pnl, accountSize float64) *domain.Trade {
	t.PnL = &pnl
	if accountSize > 0 {
		t.AccountSize = &accountSize
	}
	return t
}

func f64(v float64) *float64 { return &v }
