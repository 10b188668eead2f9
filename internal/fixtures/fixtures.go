// Package fixtures provides a demonstration journal for running without a database.
package fixtures

import (
	"context"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// AccountID owns every fixture trade.
const AccountID = "demo"

// Rules is the canonical rule list of the demo account.
var Rules = []string{"Followed plan", "Stop loss set", "Waited for confirmation", "Risk under 1%"}

// LoadFixtures populates stores with the demo journal.
func LoadFixtures(ctx context.Context, tradeStore storage.TradeStore, ruleSetStore storage.RuleSetStore) error {
	// Load trades
	if err := tradeStore.InsertBulk(ctx, Trades()); err != nil {
		return err
	}

	// Load rule set
	if ruleSetStore != nil {
		return ruleSetStore.Put(ctx, &domain.RuleSet{
			AccountID: AccountID,
			Rules:     append([]string(nil), Rules...),
			UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return nil
}

type row struct {
	id       string
	day      string // yyyy-MM-dd
	entry    string // HH:MM
	symbol   string
	dir      string
	result   domain.Result
	rr       float64
	pnl      float64
	balance  float64
	mistakes []string
	rules    []int // indexes into Rules
}

var rows = []row{
	{"fx-001", "2024-02-05", "08:15", "EURUSD", domain.DirectionLong, domain.ResultWin, 2.0, 200, 10000, nil, []int{0, 1, 2, 3}},
	{"fx-002", "2024-02-06", "09:40", "GBPUSD", domain.DirectionShort, domain.ResultLoss, 0, -100, 10200, []string{"Moved stop"}, []int{0, 3}},
	{"fx-003", "2024-02-07", "14:05", "XAUUSD", domain.DirectionLong, domain.ResultWin, 3.0, 303, 10100, nil, []int{0, 1, 2, 3}},
	{"fx-004", "2024-02-08", "15:30", "EURUSD", domain.DirectionShort, domain.ResultBreakEven, 0, 0, 10403, nil, []int{0, 1, 3}},
	{"fx-005", "2024-02-09", "08:50", "USDJPY", domain.DirectionLong, domain.ResultLoss, 0, -104, 10403, []string{"FOMO"}, []int{3}},
	{"fx-006", "2024-02-12", "09:10", "EURUSD", domain.DirectionLong, domain.ResultWin, 1.5, 155, 10299, nil, []int{0, 1, 2, 3}},
	{"fx-007", "2024-02-13", "13:45", "GBPUSD", domain.DirectionLong, domain.ResultLoss, 0, -104, 10454, []string{"FOMO", "Oversized"}, nil},
	{"fx-008", "2024-02-14", "", "XAUUSD", domain.DirectionShort, domain.ResultMissed, 0, 0, 10350, nil, []int{0}},
	{"fx-009", "2024-02-15", "10:20", "EURUSD", domain.DirectionShort, domain.ResultWin, 2.5, 259, 10350, nil, []int{0, 1, 2, 3}},
	{"fx-010", "2024-02-16", "16:00", "USDJPY", domain.DirectionShort, domain.ResultLoss, 0, -106, 10609, []string{"Late entry"}, []int{1, 3}},
	{"fx-011", "2024-02-20", "08:30", "EURUSD", domain.DirectionLong, domain.ResultWin, 1.0, 105, 10503, nil, []int{0, 1, 2, 3}},
	{"fx-012", "2024-02-21", "09:55", "GBPUSD", domain.DirectionShort, domain.ResultWin, 2.0, 212, 10608, nil, []int{0, 1, 2}},
	{"fx-013", "2024-02-22", "14:40", "XAUUSD", domain.DirectionLong, domain.ResultLoss, 0, -108, 10820, []string{"Moved stop"}, []int{0, 3}},
	{"fx-014", "2024-02-26", "08:05", "EURUSD", domain.DirectionLong, domain.ResultLoss, 0, -107, 10712, nil, []int{0, 1, 2, 3}},
	{"fx-015", "2024-02-27", "10:10", "USDJPY", domain.DirectionLong, domain.ResultWin, 1.8, 191, 10605, nil, []int{0, 1, 2, 3}},
	{"fx-016", "2024-03-01", "09:25", "EURUSD", domain.DirectionShort, domain.ResultWin, 2.2, 237, 10796, nil, []int{0, 1, 2, 3}},
	{"fx-017", "2024-03-04", "15:15", "GBPUSD", domain.DirectionLong, domain.ResultBreakEven, 0, 0, 11033, []string{"Early exit"}, []int{0, 1}},
	{"fx-018", "2024-03-05", "08:45", "XAUUSD", domain.DirectionShort, domain.ResultWin, 4.0, 441, 11033, nil, []int{0, 1, 2, 3}},
	{"fx-019", "2024-03-06", "13:20", "EURUSD", domain.DirectionLong, domain.ResultLoss, 0, -115, 11474, []string{"FOMO"}, []int{1}},
	{"fx-020", "2024-03-07", "09:00", "USDJPY", domain.DirectionShort, domain.ResultWin, 1.2, 136, 11359, nil, []int{0, 1, 2, 3}},
}

// Trades returns a fresh copy of the demo journal, ordered by date.
func Trades() []*domain.Trade {
	trades := make([]*domain.Trade, 0, len(rows))
	for _, r := range rows {
		trades = append(trades, r.trade())
	}
	return trades
}

func (r row) trade() *domain.Trade {
	date, err := time.Parse("2006-01-02", r.day)
	if err != nil {
		panic("fixtures: bad date " + r.day)
	}
	if r.entry != "" {
		clock, err := time.Parse("15:04", r.entry)
		if err != nil {
			panic("fixtures: bad entry time " + r.entry)
		}
		date = date.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	}

	pnl, balance := r.pnl, r.balance
	t := &domain.Trade{
		ID:          r.id,
		AccountID:   AccountID,
		Symbol:      r.symbol,
		Direction:   r.dir,
		Date:        date,
		EntryTime:   r.entry,
		Result:      r.result,
		RR:          r.rr,
		AccountSize: &balance,
		Mistakes:    append([]string(nil), r.mistakes...),
	}
	if r.result != domain.ResultMissed {
		t.PnL = &pnl
	}
	for _, idx := range r.rules {
		t.RulesFollowed = append(t.RulesFollowed, Rules[idx])
	}
	return t
}
