package metrics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// Key layouts for calendar slices.
const (
	DayKeyLayout   = "2006-01-02"
	MonthKeyLayout = "2006-01"
)

// sliceAcc accumulates one TimeSlice.
type sliceAcc struct {
	key          string
	trades       int
	wins, losses int
	netR         float64
	netPnL       *money
	accountSizes *money
}

func newSliceAcc(key string) *sliceAcc {
	return &sliceAcc{key: key, netPnL: newMoney(), accountSizes: newMoney()}
}

// fold adds one trade to the accumulator. Every granularity shares it.
func fold(acc *sliceAcc, t *domain.Trade) *sliceAcc {
	res := Resolve(t)
	acc.trades++
	if isWin(t) {
		acc.wins++
	} else if isLoss(t) {
		acc.losses++
	}
	acc.netR += res.R
	acc.netPnL.addPtr(res.PnL)
	if t.AccountSize != nil && *t.AccountSize > 0 {
		acc.accountSizes.add(*t.AccountSize)
	}
	return acc
}

func (acc *sliceAcc) slice() domain.TimeSlice {
	s := domain.TimeSlice{
		Key:            acc.key,
		TradeCount:     acc.trades,
		Wins:           acc.wins,
		Losses:         acc.losses,
		WinRatePercent: computeWinRate(acc.wins, acc.losses) * 100,
		NetR:           acc.netR,
		NetPnL:         acc.netPnL.float(),
	}
	if acc.accountSizes.n > 0 && acc.netPnL.n > 0 {
		if base := acc.accountSizes.mean(); base > 0 {
			if pct := s.NetPnL / base * 100; isFinite(pct) {
				s.AvgReturnPercent = &pct
			}
		}
	}
	return s
}

// groupBy folds trades into accumulators keyed by keyFn.
// Trades for which keyFn reports ok=false are skipped.
// seed pre-creates keys that must always appear, in order; other keys follow sorted ascending.
func groupBy(trades []*domain.Trade, seed []string, keyFn func(*domain.Trade) (string, bool)) []domain.TimeSlice {
	accs := make(map[string]*sliceAcc, len(seed))
	for _, k := range seed {
		accs[k] = newSliceAcc(k)
	}

	var extra []string
	for _, t := range trades {
		if t == nil {
			continue
		}
		key, ok := keyFn(t)
		if !ok {
			continue
		}
		acc, exists := accs[key]
		if !exists {
			acc = newSliceAcc(key)
			accs[key] = acc
			extra = append(extra, key)
		}
		accs[key] = fold(acc, t)
	}
	sort.Strings(extra)

	out := make([]domain.TimeSlice, 0, len(seed)+len(extra))
	for _, k := range seed {
		out = append(out, accs[k].slice())
	}
	for _, k := range extra {
		out = append(out, accs[k].slice())
	}
	return out
}

// hourKeys are "0".."23".
var hourKeys = func() []string {
	keys := make([]string, 24)
	for h := range keys {
		keys[h] = strconv.Itoa(h)
	}
	return keys
}()

// weekdayKeys are Sunday..Saturday.
var weekdayKeys = func() []string {
	keys := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		keys[d] = d.String()
	}
	return keys
}()

// ByHour groups trades by the hour of EntryTime. All 24 hours are always present.
// Trades with a missing or unparseable EntryTime are skipped.
func ByHour(trades []*domain.Trade) []domain.TimeSlice {
	return groupBy(trades, hourKeys, func(t *domain.Trade) (string, bool) {
		h, ok := ParseEntryHour(t.EntryTime)
		if !ok {
			return "", false
		}
		return hourKeys[h], true
	})
}

// ByWeekday groups trades by the weekday of Date, Sunday first. All 7 days are always present.
func ByWeekday(trades []*domain.Trade) []domain.TimeSlice {
	return groupBy(trades, weekdayKeys, func(t *domain.Trade) (string, bool) {
		return t.Date.Weekday().String(), true
	})
}

// ByDay groups trades by calendar day (yyyy-MM-dd). Only days with trades appear, ascending.
func ByDay(trades []*domain.Trade) []domain.TimeSlice {
	return groupBy(trades, nil, func(t *domain.Trade) (string, bool) {
		return t.Date.Format(DayKeyLayout), true
	})
}

// ByMonth groups trades by calendar month (yyyy-MM). Only months with trades appear, ascending.
func ByMonth(trades []*domain.Trade) []domain.TimeSlice {
	return groupBy(trades, nil, func(t *domain.Trade) (string, bool) {
		return t.Date.Format(MonthKeyLayout), true
	})
}

// BySymbol groups trades by instrument. Trades without a symbol are skipped.
func BySymbol(trades []*domain.Trade) []domain.TimeSlice {
	return groupBy(trades, nil, func(t *domain.Trade) (string, bool) {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		return sym, sym != ""
	})
}

// ParseEntryHour extracts the hour from an "HH:MM" string.
func ParseEntryHour(entryTime string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(entryTime), ":")
	if !found || hh == "" || len(hh) > 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	if len(mm) < 2 {
		return 0, false
	}
	m, err := strconv.Atoi(mm[:2])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h, true
}
