package metrics

import "trading-journal/internal/domain"

// Options is caller-supplied configuration for Analyze.
// The engine has no default bin counts: a non-positive count yields an empty histogram.
type Options struct {
	Rules       []string // canonical rule list, in display order
	PnLBinCount int      // P&L histogram bins (symmetric around zero)
	RBinCount   int      // win R-multiple histogram bins
}

// Analyze computes the full performance report for trades.
// It never fails: sparse or empty input yields a neutral report.
func Analyze(trades []*domain.Trade, opts Options) *domain.PerformanceReport {
	summary := Summarize(trades)
	equity := BuildEquityCurve(trades)
	discipline := DisciplinePercent(trades, opts.Rules)

	maxDDPct := 0.0
	if equity.MaxDrawdown != nil {
		maxDDPct = equity.MaxDrawdown.MagnitudePercentOfPeak
	}

	return &domain.PerformanceReport{
		Summary:           summary,
		Equity:            equity,
		PnLDistribution:   PnLDistribution(trades, opts.PnLBinCount),
		RDistribution:     RMultipleDistribution(trades, opts.RBinCount),
		ByHour:            ByHour(trades),
		ByWeekday:         ByWeekday(trades),
		ByDay:             ByDay(trades),
		ByMonth:           ByMonth(trades),
		BySymbol:          BySymbol(trades),
		Rules:             RuleAdherence(trades, opts.Rules),
		DisciplinePercent: discipline,
		Mistakes:          MistakeBreakdown(trades),
		Radar: BuildRadar(RadarInput{
			TradeCount:        summary.TotalTrades,
			WinRatePercent:    summary.WinRatePercent,
			DisciplinePercent: discipline,
			MaxDrawdownPct:    maxDDPct,
			Expectancy:        summary.Expectancy,
			RecoveryFactor:    equity.Recovery,
			ProfitFactor:      summary.ProfitFactor,
		}),
	}
}

// Snapshot flattens a report into a persistable AnalyticsSnapshot.
func Snapshot(accountID string, r *domain.PerformanceReport) *domain.AnalyticsSnapshot {
	s := &domain.AnalyticsSnapshot{
		AccountID:         accountID,
		TotalTrades:       r.Summary.TotalTrades,
		Wins:              r.Summary.Wins,
		Losses:            r.Summary.Losses,
		WinRatePercent:    r.Summary.WinRatePercent,
		TotalR:            r.Summary.TotalR,
		NetPnL:            r.Summary.NetPnL,
		ProfitFactor:      r.Summary.ProfitFactor,
		Expectancy:        r.Summary.Expectancy,
		RecoveryFactor:    r.Equity.Recovery,
		DisciplinePercent: r.DisciplinePercent,
		RadarScore:        RadarScore(r.Radar),
	}
	if dd := r.Equity.MaxDrawdown; dd != nil {
		s.MaxDrawdownR = dd.MagnitudeR
		s.MaxDrawdownPct = dd.MagnitudePercentOfPeak
	}
	return s
}
