package reporting

import (
	"slices"
	"time"

	"trading-journal/internal/domain"
)

// Report is one rendered performance report for an account.
type Report struct {
	GeneratedAt time.Time
	AccountID   string

	// Period covered, as yyyy-MM-dd keys of the first and last trading day.
	// Both are empty when the account has no trades in the window.
	FirstDay string
	LastDay  string

	Rules       []string // canonical rule list the adherence section was computed against
	PnLBins     int
	RBins       int
	Performance *domain.PerformanceReport
}

// Output file names written by WriteBundle.
const (
	MarkdownFile     = "PERFORMANCE_REPORT.md"
	TimeSlicesFile   = "TIME_SLICES.csv"
	RuleFile         = "RULE_ADHERENCE.csv"
	DistributionFile = "DISTRIBUTION.csv"
	JSONFile         = "report.json"
)

// Granularity names used in TIME_SLICES.csv and the API.
const (
	GranularityHour    = "hour"
	GranularityWeekday = "weekday"
	GranularityDay     = "day"
	GranularityMonth   = "month"
	GranularitySymbol  = "symbol"
)

// Granularities lists the time slice groupings in output order.
var Granularities = []string{
	GranularityHour,
	GranularityWeekday,
	GranularityDay,
	GranularityMonth,
	GranularitySymbol,
}

// KnownGranularity reports whether g is one of Granularities.
func KnownGranularity(g string) bool {
	return slices.Contains(Granularities, g)
}

// Slices returns the report's time slices for a granularity.
// ok is false for an unknown granularity.
func Slices(r *domain.PerformanceReport, granularity string) (slices []domain.TimeSlice, ok bool) {
	switch granularity {
	case GranularityHour:
		return r.ByHour, true
	case GranularityWeekday:
		return r.ByWeekday, true
	case GranularityDay:
		return r.ByDay, true
	case GranularityMonth:
		return r.ByMonth, true
	case GranularitySymbol:
		return r.BySymbol, true
	}
	return nil, false
}
