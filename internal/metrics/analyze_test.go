package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

func TestAnalyze_ZeroTrades(t *testing.T) {
	r := Analyze(nil, Options{Rules: []string{"Plan"}, PnLBinCount: 10, RBinCount: 5})

	assert.Equal(t, 0.0, r.Summary.WinRate)
	assert.Equal(t, domain.Ratio(0), r.Summary.ProfitFactor)
	assert.Nil(t, r.Equity.MaxDrawdown)
	assert.Empty(t, r.PnLDistribution)
	assert.Empty(t, r.RDistribution)
	assert.Len(t, r.ByHour, 24)
	assert.Len(t, r.ByWeekday, 7)
	assert.Empty(t, r.ByDay)
	assert.Nil(t, r.Radar)
	require.Len(t, r.Rules, 1)
	assert.Equal(t, 0, r.Rules[0].AdherenceCount)

	_, err := json.Marshal(r)
	require.NoError(t, err)
}

func TestAnalyze_Composes(t *testing.T) {
	trades := []*domain.Trade{
		followed(withPnL(win("t1", 1, 3), 300, 10000), "Plan"),
		followed(withPnL(loss("t2", 2), -100, 10000), "Plan"),
		withPnL(loss("t3", 3), -100, 10000),
		followed(withPnL(win("t4", 4, 1), 100, 10000), "Plan", "Stop"),
	}

	r := Analyze(trades, Options{Rules: []string{"Plan", "Stop"}, PnLBinCount: 10, RBinCount: 5})

	assert.InDelta(t, 2.0, r.Summary.TotalR, 1e-9)
	assert.InDelta(t, 50.0, r.DisciplinePercent, 1e-9)
	require.Len(t, r.Radar, 6)
	assert.NotEmpty(t, r.PnLDistribution)
	assert.NotEmpty(t, r.RDistribution)
	require.NotNil(t, r.Equity.MaxDrawdown)
	assert.InDelta(t, 2.0, r.Equity.MaxDrawdown.MagnitudeR, 1e-9)

	snap := Snapshot("acc1", r)
	assert.Equal(t, "acc1", snap.AccountID)
	assert.Equal(t, 4, snap.TotalTrades)
	assert.InDelta(t, 2.0, snap.MaxDrawdownR, 1e-9)
	assert.InDelta(t, 200.0, snap.NetPnL, 1e-9)
	require.NotNil(t, snap.RadarScore)
}

func TestAnalyze_InfiniteRatiosSerialize(t *testing.T) {
	trades := []*domain.Trade{win("t1", 1, 1), win("t2", 2, 2), win("t3", 3, 1)}

	r := Analyze(trades, Options{PnLBinCount: 10, RBinCount: 5})

	data, err := json.Marshal(r.Summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"profitFactor":"∞"`)

	var back domain.Summary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.ProfitFactor.IsInf())
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	trades := []*domain.Trade{win("b", 2, 1), loss("a", 1)}

	Analyze(trades, Options{PnLBinCount: 10, RBinCount: 5})

	assert.Equal(t, "b", trades[0].ID)
	assert.Equal(t, "a", trades[1].ID)
}

func TestAnalyze_OverflowingAmountsStaySerializable(t *testing.T) {
	trades := []*domain.Trade{
		withPnL(win("t1", 1, 1), 1e300, 1e-10),
		withPnL(loss("t2", 2), math.Inf(1), 10000),
	}

	var r *domain.PerformanceReport
	require.NotPanics(t, func() {
		r = Analyze(trades, Options{PnLBinCount: 4, RBinCount: 4})
	})

	assert.Nil(t, r.Summary.AvgReturnPct)
	_, err := json.Marshal(r)
	require.NoError(t, err)
}
