package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

func TestSummarize_WinRateProfitFactorExpectancy(t *testing.T) {
	trades := []*domain.Trade{
		win("t1", 1, 3),
		loss("t2", 2),
		loss("t3", 3),
		win("t4", 4, 1),
	}

	s := Summarize(trades)

	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 50.0, s.WinRatePercent, 1e-9)
	assert.InDelta(t, 4.0, s.GrossProfitR, 1e-9)
	assert.InDelta(t, 2.0, s.GrossLossR, 1e-9)
	assert.InDelta(t, 2.0, float64(s.ProfitFactor), 1e-9)
	assert.InDelta(t, 0.5, s.Expectancy, 1e-9)
	assert.InDelta(t, 2.0, s.TotalR, 1e-9)
	assert.InDelta(t, 2.0, s.AvgWinR, 1e-9)
	assert.InDelta(t, 3.0, s.LargestWinR, 1e-9)
	assert.Equal(t, 1, s.MaxConsecWins)
	assert.Equal(t, 2, s.MaxConsecLosses)
}

func TestSummarize_ZeroTrades(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, domain.Ratio(0), s.ProfitFactor)
	assert.Equal(t, 0.0, s.Expectancy)
	assert.Nil(t, s.AvgReturnPct)
}

func TestSummarize_BreakEvenAndMissedExcludedFromWinRate(t *testing.T) {
	trades := []*domain.Trade{
		win("t1", 1, 2),
		loss("t2", 2),
		{ID: "t3", Date: march(3), Result: domain.ResultBreakEven},
		{ID: "t4", Date: march(4), Result: domain.ResultMissed},
	}

	s := Summarize(trades)

	assert.Equal(t, 1, s.BreakEvens)
	assert.Equal(t, 1, s.Missed)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 0.25, s.AvgR, 1e-9)
}

func TestSummarize_ProfitFactorSentinels(t *testing.T) {
	allWins := Summarize([]*domain.Trade{win("t1", 1, 2), win("t2", 2, 1)})
	if !math.IsInf(float64(allWins.ProfitFactor), 1) {
		t.Errorf("ProfitFactor = %v, want +Inf", allWins.ProfitFactor)
	}

	onlyFlat := Summarize([]*domain.Trade{{ID: "t1", Date: march(1), Result: domain.ResultBreakEven}})
	if onlyFlat.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0", onlyFlat.ProfitFactor)
	}

	onlyLosses := Summarize([]*domain.Trade{loss("t1", 1)})
	if onlyLosses.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0", onlyLosses.ProfitFactor)
	}
	assert.InDelta(t, -1.0, onlyLosses.Expectancy, 1e-9)
}

func TestSummarize_Currency(t *testing.T) {
	trades := []*domain.Trade{
		withPnL(win("t1", 1, 2), 200.10, 10000),
		withPnL(loss("t2", 2), -100.05, 10000),
		withPnL(win("t3", 3, 1), 100.20, 10000),
		win("t4", 4, 1),
	}

	s := Summarize(trades)

	assert.InDelta(t, 200.25, s.NetPnL, 1e-9)
	assert.InDelta(t, 150.15, s.AvgWinPnL, 1e-9)
	assert.InDelta(t, -100.05, s.AvgLossPnL, 1e-9)
	assert.InDelta(t, 200.10, s.LargestWinPnL, 1e-9)
	assert.InDelta(t, -100.05, s.LargestLossPnL, 1e-9)
	require.NotNil(t, s.AvgReturnPct)
	assert.InDelta(t, 0.6675, *s.AvgReturnPct, 1e-9)
}

func TestSummarize_OrderIndependent(t *testing.T) {
	trades := []*domain.Trade{
		loss("t3", 3),
		win("t1", 1, 2),
		loss("t4", 4),
		win("t2", 2, 1),
	}

	s := Summarize(trades)

	// Chronological order is W W L L
	assert.Equal(t, 2, s.MaxConsecWins)
	assert.Equal(t, 2, s.MaxConsecLosses)
}

func TestComputeMaxStreak_BrokenByBreakEven(t *testing.T) {
	trades := []*domain.Trade{
		loss("t1", 1),
		loss("t2", 2),
		{ID: "t3", Date: march(3), Result: domain.ResultBreakEven},
		loss("t4", 4),
	}

	if got := computeMaxStreak(trades, isLoss); got != 2 {
		t.Errorf("computeMaxStreak = %d, want 2", got)
	}
}

func TestSummarize_NonFiniteAmountsAreSkipped(t *testing.T) {
	trades := []*domain.Trade{
		withPnL(win("t1", 1, 1), 1e300, 1e-10),
		withPnL(loss("t2", 2), math.NaN(), 10000),
		withPnL(win("t3", 3, 2), 50, 10000),
	}

	var s domain.Summary
	require.NotPanics(t, func() { s = Summarize(trades) })

	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	require.NotNil(t, s.AvgReturnPct, "only the finite return is averaged")
	assert.InDelta(t, 0.5, *s.AvgReturnPct, 1e-9)
	assert.InDelta(t, 1e300, s.NetPnL, 1e288)
	assert.False(t, math.IsNaN(s.AvgLossPnL))
}
