package metrics

import (
	"fmt"
	"math"

	"trading-journal/internal/domain"
)

// Bin builds a histogram over values.
//
// With symmetricAroundZero the buckets span [-max|v|, max|v|] in binCount equal steps.
// Otherwise they span [min, max]. Empty buckets are dropped. An empty input, an
// all-zero input or a non-positive binCount yields an empty list.
// Positive values count as wins and negative values as losses.
func Bin(values []float64, binCount int, symmetricAroundZero bool) []domain.Bucket {
	if len(values) == 0 || binCount <= 0 {
		return []domain.Bucket{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	maxAbs := 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	if maxAbs == 0 {
		return []domain.Bucket{}
	}

	var start, width float64
	if symmetricAroundZero {
		width = maxAbs / (float64(binCount) / 2)
		start = -maxAbs
	} else {
		if hi == lo {
			// Single distinct value: one unit-wide bucket.
			b := domain.Bucket{LowerBound: lo, UpperBound: lo + 1}
			for _, v := range values {
				tally(&b, v)
			}
			b.Label = rangeLabel(b.LowerBound, b.UpperBound, "")
			return []domain.Bucket{b}
		}
		width = (hi - lo) / float64(binCount)
		start = lo
	}

	buckets := make([]domain.Bucket, binCount)
	for i := range buckets {
		buckets[i].LowerBound = start + float64(i)*width
		buckets[i].UpperBound = start + float64(i+1)*width
		buckets[i].Label = rangeLabel(buckets[i].LowerBound, buckets[i].UpperBound, "")
	}
	for _, v := range values {
		idx := int(math.Floor((v - start) / width))
		// The top edge belongs to the last bucket.
		if idx >= binCount {
			idx = binCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		tally(&buckets[idx], v)
	}

	return dropEmpty(buckets)
}

// PnLDistribution histograms the recorded P&L of trades, symmetric around zero.
// Trades without a finite P&L are skipped.
func PnLDistribution(trades []*domain.Trade, binCount int) []domain.Bucket {
	values := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t == nil {
			continue
		}
		if p := finite(t.PnL); p != nil {
			values = append(values, *p)
		}
	}
	return Bin(values, binCount, true)
}

// RMultipleDistribution histograms decided trades by R.
// All losses share one exact "-1R" bucket. Wins are binned from 0 with a
// width of ceil(maxWinR / binCount), at least 1R. Break-even and missed trades are skipped.
func RMultipleDistribution(trades []*domain.Trade, binCount int) []domain.Bucket {
	if binCount <= 0 {
		return []domain.Bucket{}
	}

	lossBucket := domain.Bucket{Label: "-1R", LowerBound: LossR, UpperBound: 0}
	var winRs []float64
	maxWinR := 0.0
	for _, t := range trades {
		if t == nil {
			continue
		}
		switch t.Result {
		case domain.ResultLoss:
			lossBucket.Count++
			lossBucket.LossCount++
		case domain.ResultWin:
			r := math.Max(Resolve(t).R, 0)
			winRs = append(winRs, r)
			maxWinR = math.Max(maxWinR, r)
		}
	}

	buckets := make([]domain.Bucket, 0, binCount+1)
	if lossBucket.Count > 0 {
		buckets = append(buckets, lossBucket)
	}
	if len(winRs) == 0 {
		return buckets
	}

	width := math.Max(math.Ceil(maxWinR/float64(binCount)), 1)
	n := int(math.Floor(maxWinR/width)) + 1
	winBuckets := make([]domain.Bucket, n)
	for i := range winBuckets {
		lower := float64(i) * width
		upper := float64(i+1) * width
		winBuckets[i] = domain.Bucket{
			Label:      rangeLabel(lower, upper, "R"),
			LowerBound: lower,
			UpperBound: upper,
		}
	}
	for _, r := range winRs {
		b := &winBuckets[int(math.Floor(r/width))]
		b.Count++
		b.WinCount++
	}

	return append(buckets, dropEmpty(winBuckets)...)
}

func tally(b *domain.Bucket, v float64) {
	b.Count++
	switch {
	case v > 0:
		b.WinCount++
	case v < 0:
		b.LossCount++
	}
}

func dropEmpty(buckets []domain.Bucket) []domain.Bucket {
	out := make([]domain.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}

func rangeLabel(lower, upper float64, unit string) string {
	return fmt.Sprintf("%s%s to %s%s", trimFloat(lower), unit, trimFloat(upper), unit)
}

// trimFloat prints integral values without decimals and others with two.
func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
