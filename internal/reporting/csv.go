package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"trading-journal/internal/domain"
)

// RenderTimeSlicesCSV renders every time slice grouping as one CSV table.
func RenderTimeSlicesCSV(p *domain.PerformanceReport) (string, error) {
	rows := [][]string{{
		"granularity", "key", "trade_count", "wins", "losses",
		"win_rate_percent", "net_r", "net_pnl", "avg_return_percent",
	}}
	for _, g := range Granularities {
		slices, _ := Slices(p, g)
		for _, ts := range slices {
			avg := ""
			if ts.AvgReturnPercent != nil {
				avg = formatFloat(*ts.AvgReturnPercent)
			}
			rows = append(rows, []string{
				g, ts.Key,
				strconv.Itoa(ts.TradeCount), strconv.Itoa(ts.Wins), strconv.Itoa(ts.Losses),
				formatFloat(ts.WinRatePercent), formatFloat(ts.NetR), formatFloat(ts.NetPnL), avg,
			})
		}
	}
	return writeCSV(rows)
}

// RenderRulesCSV renders rule adherence stats.
// Rules nobody followed leave win rate and net R empty.
func RenderRulesCSV(stats []domain.RuleStat) (string, error) {
	rows := [][]string{{"rule", "adherence_count", "wins", "losses", "win_rate_percent", "net_r"}}
	for _, rs := range stats {
		winRate, netR := "", ""
		if rs.AdherenceCount > 0 {
			winRate, netR = formatFloat(rs.WinRatePercent), formatFloat(rs.NetR)
		}
		rows = append(rows, []string{
			rs.RuleName, strconv.Itoa(rs.AdherenceCount),
			strconv.Itoa(rs.Wins), strconv.Itoa(rs.Losses), winRate, netR,
		})
	}
	return writeCSV(rows)
}

// RenderDistributionCSV renders both histograms, tagged pnl and r.
func RenderDistributionCSV(p *domain.PerformanceReport) (string, error) {
	rows := [][]string{{"kind", "label", "lower_bound", "upper_bound", "count", "win_count", "loss_count"}}
	add := func(kind string, buckets []domain.Bucket) {
		for _, b := range buckets {
			rows = append(rows, []string{
				kind, b.Label, formatFloat(b.LowerBound), formatFloat(b.UpperBound),
				strconv.Itoa(b.Count), strconv.Itoa(b.WinCount), strconv.Itoa(b.LossCount),
			})
		}
	}
	add("pnl", p.PnLDistribution)
	add("r", p.RDistribution)
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
