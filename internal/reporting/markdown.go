package reporting

import (
	"fmt"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	p := r.Performance
	s := p.Summary

	// Header
	sb.WriteString("# Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Account: %s | Trades: %d", r.AccountID, s.TotalTrades))
	if r.FirstDay != "" {
		sb.WriteString(fmt.Sprintf(" | Period: %s to %s", r.FirstDay, r.LastDay))
	}
	sb.WriteString("\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Wins / Losses | %d / %d |\n", s.Wins, s.Losses))
	sb.WriteString(fmt.Sprintf("| Break-even / Missed | %d / %d |\n", s.BreakEvens, s.Missed))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", s.WinRatePercent))
	sb.WriteString(fmt.Sprintf("| Total R | %.2f |\n", s.TotalR))
	sb.WriteString(fmt.Sprintf("| Avg R / Trade | %.2f |\n", s.AvgR))
	sb.WriteString(fmt.Sprintf("| Avg Win R | %.2f |\n", s.AvgWinR))
	sb.WriteString(fmt.Sprintf("| Largest Win R | %.2f |\n", s.LargestWinR))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", s.ProfitFactor))
	sb.WriteString(fmt.Sprintf("| Expectancy (R) | %.2f |\n", s.Expectancy))
	sb.WriteString(fmt.Sprintf("| Net P&L | %.2f |\n", s.NetPnL))
	sb.WriteString(fmt.Sprintf("| Avg Win / Loss P&L | %.2f / %.2f |\n", s.AvgWinPnL, s.AvgLossPnL))
	sb.WriteString(fmt.Sprintf("| Largest Win / Loss P&L | %.2f / %.2f |\n", s.LargestWinPnL, s.LargestLossPnL))
	sb.WriteString(fmt.Sprintf("| Avg Return | %s |\n", percentOrNA(s.AvgReturnPct)))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Wins / Losses | %d / %d |\n", s.MaxConsecWins, s.MaxConsecLosses))
	sb.WriteString("\n")

	// Equity
	sb.WriteString("## Equity & Drawdown\n\n")
	sb.WriteString(fmt.Sprintf("Net R: %.2f | Recovery Factor: %s\n\n", p.Equity.NetR, p.Equity.Recovery))
	if dd := p.Equity.MaxDrawdown; dd != nil {
		sb.WriteString(fmt.Sprintf("Max drawdown: %.2fR (%.2f%% of peak), from point %d to point %d\n\n",
			dd.MagnitudeR, dd.MagnitudePercentOfPeak, dd.StartIndex, dd.EndIndex))
	} else {
		sb.WriteString("No drawdown.\n\n")
	}

	// Radar
	sb.WriteString("## Radar\n\n")
	if len(p.Radar) > 0 {
		sb.WriteString("| Axis | Raw | Score |\n")
		sb.WriteString("|------|-----|-------|\n")
		for _, a := range p.Radar {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f |\n", a.Name, a.RawValue, a.NormalizedValue))
		}
	} else {
		sb.WriteString("Not enough trades for a radar profile.\n")
	}
	sb.WriteString("\n")

	// Rules
	sb.WriteString("## Rule Adherence\n\n")
	sb.WriteString(fmt.Sprintf("Discipline: %.2f%%\n\n", p.DisciplinePercent))
	if len(p.Rules) > 0 {
		sb.WriteString("| Rule | Followed | Wins | Losses | Win Rate | Net R |\n")
		sb.WriteString("|------|----------|------|--------|----------|-------|\n")
		for _, rs := range p.Rules {
			if rs.AdherenceCount == 0 {
				sb.WriteString(fmt.Sprintf("| %s | 0 | - | - | n/a | n/a |\n", rs.RuleName))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.2f%% | %.2f |\n",
				rs.RuleName, rs.AdherenceCount, rs.Wins, rs.Losses, rs.WinRatePercent, rs.NetR))
		}
	} else {
		sb.WriteString("No rules configured.\n")
	}
	sb.WriteString("\n")

	// Mistakes
	sb.WriteString("## Mistakes\n\n")
	if len(p.Mistakes) > 0 {
		sb.WriteString("| Mistake | Occurrences | Net R | Net P&L |\n")
		sb.WriteString("|---------|-------------|-------|---------|\n")
		for _, m := range p.Mistakes {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f |\n", m.Tag, m.Occurrences, m.NetR, m.NetPnL))
		}
	} else {
		sb.WriteString("No mistakes tagged.\n")
	}
	sb.WriteString("\n")

	writeSliceTable(&sb, "By Weekday", p.ByWeekday)
	writeSliceTable(&sb, "By Hour", p.ByHour)
	writeSliceTable(&sb, "By Month", p.ByMonth)
	writeSliceTable(&sb, "By Symbol", p.BySymbol)

	writeBucketTable(&sb, "P&L Distribution", p.PnLDistribution)
	writeBucketTable(&sb, "R-Multiple Distribution", p.RDistribution)

	return sb.String()
}

func writeSliceTable(sb *strings.Builder, title string, slices []domain.TimeSlice) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	if len(slices) == 0 {
		sb.WriteString("No data.\n\n")
		return
	}
	sb.WriteString("| Key | Trades | Wins | Losses | Win Rate | Net R | Net P&L | Avg Return |\n")
	sb.WriteString("|-----|--------|------|--------|----------|-------|---------|------------|\n")
	for _, ts := range slices {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.2f%% | %.2f | %.2f | %s |\n",
			ts.Key, ts.TradeCount, ts.Wins, ts.Losses, ts.WinRatePercent, ts.NetR, ts.NetPnL,
			percentOrNA(ts.AvgReturnPercent)))
	}
	sb.WriteString("\n")
}

func writeBucketTable(sb *strings.Builder, title string, buckets []domain.Bucket) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	if len(buckets) == 0 {
		sb.WriteString("No data.\n\n")
		return
	}
	sb.WriteString("| Range | Count | Wins | Losses |\n")
	sb.WriteString("|-------|-------|------|--------|\n")
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", b.Label, b.Count, b.WinCount, b.LossCount))
	}
	sb.WriteString("\n")
}

func percentOrNA(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *p)
}
