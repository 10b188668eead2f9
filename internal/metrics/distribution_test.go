package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

func TestBin_EmptyAndAllZero(t *testing.T) {
	assert.Empty(t, Bin(nil, 10, true))
	assert.Empty(t, Bin([]float64{0, 0, 0}, 10, true))
	assert.Empty(t, Bin([]float64{0, 0}, 4, false))
	assert.Empty(t, Bin([]float64{1, 2}, 0, false))
	assert.NotNil(t, Bin(nil, 10, true), "empty result must be a list, not nil")
}

func TestBin_Symmetric(t *testing.T) {
	values := []float64{-100, -40, 10, 60, 100}

	buckets := Bin(values, 4, true)

	// width 50 over [-100, 100]
	require.Len(t, buckets, 4)
	assert.Equal(t, -100.0, buckets[0].LowerBound)
	assert.Equal(t, -50.0, buckets[0].UpperBound)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 1, buckets[2].Count)
	assert.Equal(t, 2, buckets[3].Count, "the top edge belongs to the last bucket")
	assert.Equal(t, 2, buckets[3].WinCount)

	total := 0
	for _, b := range buckets {
		total += b.Count
		if math.IsNaN(b.LowerBound) || math.IsNaN(b.UpperBound) {
			t.Errorf("NaN bound in %+v", b)
		}
	}
	assert.Equal(t, len(values), total)
}

func TestBin_DropsEmptyBuckets(t *testing.T) {
	buckets := Bin([]float64{-100, 100}, 10, true)

	require.Len(t, buckets, 2)
	assert.Equal(t, 1, buckets[0].LossCount)
	assert.Equal(t, 1, buckets[1].WinCount)
}

func TestBin_MinMaxRange(t *testing.T) {
	buckets := Bin([]float64{1, 2, 3, 4}, 3, false)

	require.Len(t, buckets, 3)
	assert.Equal(t, 1.0, buckets[0].LowerBound)
	assert.Equal(t, 4.0, buckets[2].UpperBound)
	assert.Equal(t, 2, buckets[2].Count)
}

func TestBin_SingleDistinctValue(t *testing.T) {
	buckets := Bin([]float64{5, 5, 5}, 4, false)

	require.Len(t, buckets, 1)
	assert.Equal(t, 5.0, buckets[0].LowerBound)
	assert.Equal(t, 6.0, buckets[0].UpperBound)
	assert.Equal(t, 3, buckets[0].Count)
}

func TestPnLDistribution_SkipsMissingPnL(t *testing.T) {
	trades := []*domain.Trade{
		withPnL(win("t1", 1, 2), 200, 0),
		withPnL(loss("t2", 2), -100, 0),
		win("t3", 3, 1),
	}

	buckets := PnLDistribution(trades, 10)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestRMultipleDistribution(t *testing.T) {
	trades := []*domain.Trade{
		loss("t1", 1),
		loss("t2", 2),
		win("t3", 3, 0.5),
		win("t4", 4, 2.5),
		win("t5", 5, 3),
		{ID: "t6", Date: march(6), Result: domain.ResultBreakEven},
	}

	buckets := RMultipleDistribution(trades, 5)

	require.Len(t, buckets, 4)
	assert.Equal(t, "-1R", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, 2, buckets[0].LossCount)

	assert.Equal(t, "0R to 1R", buckets[1].Label)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, "2R to 3R", buckets[2].Label)
	assert.Equal(t, "3R to 4R", buckets[3].Label)
}

func TestRMultipleDistribution_WideWins(t *testing.T) {
	buckets := RMultipleDistribution([]*domain.Trade{win("t1", 1, 1), win("t2", 2, 10)}, 5)

	// width = ceil(10 / 5) = 2
	require.Len(t, buckets, 2)
	assert.Equal(t, "0R to 2R", buckets[0].Label)
	assert.Equal(t, "10R to 12R", buckets[1].Label)
}

func TestRMultipleDistribution_Empty(t *testing.T) {
	assert.Empty(t, RMultipleDistribution(nil, 5))
	assert.Empty(t, RMultipleDistribution([]*domain.Trade{win("t1", 1, 2)}, 0))
}
