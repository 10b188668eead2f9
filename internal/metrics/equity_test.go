package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

func cumulative(curve domain.EquityCurve) []float64 {
	out := make([]float64, len(curve.Points))
	for i, p := range curve.Points {
		out[i] = p.CumulativeR
	}
	return out
}

func TestBuildEquityCurve_Scenario(t *testing.T) {
	trades := []*domain.Trade{
		win("t1", 1, 2),
		loss("t2", 2),
		win("t3", 3, 1),
	}

	curve := BuildEquityCurve(trades)

	assert.Equal(t, []float64{0, 2, 1, 2}, cumulative(curve))
	require.NotNil(t, curve.MaxDrawdown)
	assert.Equal(t, 1, curve.MaxDrawdown.StartIndex)
	assert.Equal(t, 2, curve.MaxDrawdown.EndIndex)
	assert.InDelta(t, 1.0, curve.MaxDrawdown.MagnitudeR, 1e-9)
	assert.InDelta(t, 50.0, curve.MaxDrawdown.MagnitudePercentOfPeak, 1e-9)
	assert.InDelta(t, 2.0, curve.NetR, 1e-9)
	assert.InDelta(t, 2.0, float64(curve.Recovery), 1e-9)
}

func TestBuildEquityCurve_SortsByDateThenID(t *testing.T) {
	trades := []*domain.Trade{
		win("b", 2, 1),
		loss("c", 1),
		win("a", 2, 3),
	}

	curve := BuildEquityCurve(trades)

	require.Len(t, curve.Points, 4)
	assert.Equal(t, "", curve.Points[0].TradeID)
	assert.Equal(t, "c", curve.Points[1].TradeID)
	assert.Equal(t, "a", curve.Points[2].TradeID)
	assert.Equal(t, "b", curve.Points[3].TradeID)
	assert.Equal(t, []float64{0, -1, 2, 3}, cumulative(curve))
}

func TestBuildEquityCurve_PeakInvariant(t *testing.T) {
	trades := []*domain.Trade{
		loss("t1", 1), win("t2", 2, 2.5), loss("t3", 3), loss("t4", 4),
		win("t5", 5, 0.5), loss("t6", 6), win("t7", 7, 4),
	}

	curve := BuildEquityCurve(trades)

	sum := 0.0
	for _, tr := range trades {
		sum += Resolve(tr).R
	}
	last := curve.Points[len(curve.Points)-1]
	assert.InDelta(t, sum, last.CumulativeR, 1e-9)

	for _, p := range curve.Points {
		if p.PeakR < p.CumulativeR {
			t.Errorf("point %d: peak %v < cumulative %v", p.SequenceIndex, p.PeakR, p.CumulativeR)
		}
		assert.InDelta(t, p.PeakR-p.CumulativeR, p.DrawdownR, 1e-9)
	}
}

func TestBuildEquityCurve_DrawdownFromZeroPeak(t *testing.T) {
	curve := BuildEquityCurve([]*domain.Trade{loss("t1", 1), loss("t2", 2)})

	require.NotNil(t, curve.MaxDrawdown)
	assert.Equal(t, 0, curve.MaxDrawdown.StartIndex)
	assert.Equal(t, 2, curve.MaxDrawdown.EndIndex)
	assert.InDelta(t, 2.0, curve.MaxDrawdown.MagnitudeR, 1e-9)
	assert.Equal(t, 0.0, curve.MaxDrawdown.MagnitudePercentOfPeak)
	assert.Equal(t, domain.Ratio(-1), curve.Recovery)
}

func TestBuildEquityCurve_TiesKeepEarliestEpisode(t *testing.T) {
	trades := []*domain.Trade{
		win("t1", 1, 1), loss("t2", 2),
		win("t3", 3, 2), loss("t4", 4),
	}

	curve := BuildEquityCurve(trades)

	require.NotNil(t, curve.MaxDrawdown)
	assert.Equal(t, 1, curve.MaxDrawdown.StartIndex)
	assert.Equal(t, 2, curve.MaxDrawdown.EndIndex)
}

func TestBuildEquityCurve_Sparse(t *testing.T) {
	empty := BuildEquityCurve(nil)
	assert.Len(t, empty.Points, 1)
	assert.Nil(t, empty.MaxDrawdown)
	assert.Equal(t, domain.Ratio(0), empty.Recovery)

	single := BuildEquityCurve([]*domain.Trade{loss("t1", 1)})
	assert.Len(t, single.Points, 2)
	assert.Nil(t, single.MaxDrawdown, "a single trade never forms an episode")
}

func TestBuildEquityCurve_NoDrawdown(t *testing.T) {
	curve := BuildEquityCurve([]*domain.Trade{win("t1", 1, 1), win("t2", 2, 2)})

	assert.Nil(t, curve.MaxDrawdown)
	assert.True(t, math.IsInf(float64(curve.Recovery), 1))
}

func TestBuildEquityCurve_CumulativePnL(t *testing.T) {
	trades := []*domain.Trade{
		withPnL(win("t1", 1, 2), 100.1, 0),
		loss("t2", 2),
		withPnL(loss("t3", 3), -50.05, 0),
	}

	curve := BuildEquityCurve(trades)

	assert.InDelta(t, 100.1, curve.Points[2].CumulativePnL, 1e-9)
	assert.InDelta(t, 50.05, curve.Points[3].CumulativePnL, 1e-9)
}
