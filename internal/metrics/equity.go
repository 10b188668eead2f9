package metrics

import (
	"sort"

	"trading-journal/internal/domain"
)

// sortChronologically returns a copy of trades sorted by Date ASC, ID ASC.
// Nil entries are dropped.
func sortChronologically(trades []*domain.Trade) []*domain.Trade {
	sorted := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t != nil {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// BuildEquityCurve computes the cumulative R curve and the worst drawdown episode.
// Trades are sorted internally; callers may pass them in any order.
// The drawdown is nil for fewer than 2 trades or when equity never fell below a peak.
func BuildEquityCurve(trades []*domain.Trade) domain.EquityCurve {
	sorted := sortChronologically(trades)

	points := make([]domain.EquityPoint, 0, len(sorted)+1)
	points = append(points, domain.EquityPoint{})

	var (
		cumulative float64
		pnl        = newMoney()
		peak       float64
		peakIndex  int
		worst      *domain.DrawdownEpisode
	)

	for i, t := range sorted {
		idx := i + 1
		res := Resolve(t)
		cumulative += res.R
		pnl.addPtr(res.PnL)

		if cumulative > peak {
			peak = cumulative
			peakIndex = idx
		} else if drawdown := peak - cumulative; drawdown > 0 && (worst == nil || drawdown > worst.MagnitudeR) {
			// Strictly greater keeps the earliest episode on ties.
			worst = &domain.DrawdownEpisode{
				StartIndex:             peakIndex,
				EndIndex:               idx,
				MagnitudeR:             drawdown,
				MagnitudePercentOfPeak: percentOfPeak(drawdown, peak),
			}
		}

		points = append(points, domain.EquityPoint{
			SequenceIndex: idx,
			TradeID:       t.ID,
			CumulativeR:   cumulative,
			PeakR:         peak,
			DrawdownR:     peak - cumulative,
			CumulativePnL: pnl.float(),
		})
	}

	if len(sorted) < 2 {
		worst = nil
	}

	maxDD := 0.0
	if worst != nil {
		maxDD = worst.MagnitudeR
	}

	return domain.EquityCurve{
		Points:      points,
		MaxDrawdown: worst,
		NetR:        cumulative,
		Recovery:    RecoveryFactor(cumulative, maxDD),
	}
}

func percentOfPeak(drawdown, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return drawdown / peak * 100
}

// RecoveryFactor computes net R / max drawdown R.
// With no drawdown it is +Inf for a positive net R and 0 otherwise.
func RecoveryFactor(netR, maxDrawdownR float64) domain.Ratio {
	if maxDrawdownR == 0 {
		if netR > 0 {
			return domain.InfiniteRatio()
		}
		return 0
	}
	return domain.Ratio(netR / maxDrawdownR)
}
