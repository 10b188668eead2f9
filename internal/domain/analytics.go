package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// EquityPoint is one step of the cumulative R curve.
// Index 0 is the synthetic starting point with CumulativeR = 0.
type EquityPoint struct {
	SequenceIndex int     `json:"sequenceIndex"`
	TradeID       string  `json:"tradeId,omitempty"` // empty for the synthetic point
	CumulativeR   float64 `json:"cumulativeR"`
	PeakR         float64 `json:"peakR"`     // running maximum of CumulativeR
	DrawdownR     float64 `json:"drawdownR"` // PeakR - CumulativeR
	CumulativePnL float64 `json:"cumulativePnl"`
}

// DrawdownEpisode is the largest peak-to-trough drop of an equity curve.
type DrawdownEpisode struct {
	StartIndex             int     `json:"startIndex"` // sequence index of the peak
	EndIndex               int     `json:"endIndex"`   // sequence index of the trough
	MagnitudeR             float64 `json:"magnitudeR"`
	MagnitudePercentOfPeak float64 `json:"magnitudePercentOfPeak"`
}

// EquityCurve is the output of the equity/drawdown tracker.
type EquityCurve struct {
	Points      []EquityPoint    `json:"points"`
	MaxDrawdown *DrawdownEpisode `json:"maxDrawdown"` // nil when equity never dipped below a peak
	NetR        float64          `json:"netR"`
	Recovery    Ratio            `json:"recoveryFactor"`
}

// Bucket is a half-open histogram interval [LowerBound, UpperBound).
type Bucket struct {
	Label      string  `json:"label"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	Count      int     `json:"count"`
	WinCount   int     `json:"winCount"`
	LossCount  int     `json:"lossCount"`
}

// TimeSlice aggregates trades sharing a grouping key.
// Key is an hour ("0".."23"), a weekday name, a yyyy-MM-dd date, a yyyy-MM month or a symbol.
type TimeSlice struct {
	Key              string   `json:"key"`
	TradeCount       int      `json:"tradeCount"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	WinRatePercent   float64  `json:"winRatePercent"`
	NetR             float64  `json:"netR"`
	NetPnL           float64  `json:"netPnl"`
	AvgReturnPercent *float64 `json:"avgReturnPercent"` // nil when no account size is known
}

// RuleStat correlates adherence to one rule with outcomes.
type RuleStat struct {
	RuleName       string  `json:"ruleName"`
	AdherenceCount int     `json:"adherenceCount"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRatePercent float64 `json:"winRatePercent"`
	NetR           float64 `json:"netR"`
}

// RadarAxis is one normalized axis of the performance radar.
type RadarAxis struct {
	Name            string  `json:"name"`
	RawValue        Ratio   `json:"rawValue"` // may be +Inf for unbounded ratios
	NormalizedValue float64 `json:"normalizedValue"` // in [0, 100]
}

// MistakeStat aggregates trades tagged with one mistake.
type MistakeStat struct {
	Tag         string  `json:"tag"`
	Occurrences int     `json:"occurrences"`
	NetR        float64 `json:"netR"`
	NetPnL      float64 `json:"netPnl"`
}

// Summary holds scalar statistics over a trade collection.
type Summary struct {
	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	BreakEvens  int `json:"breakEvens"`
	Missed      int `json:"missed"`

	WinRate        float64 `json:"winRate"`        // wins / (wins + losses), 0..1
	WinRatePercent float64 `json:"winRatePercent"` // WinRate * 100

	GrossProfitR float64 `json:"grossProfitR"`
	GrossLossR   float64 `json:"grossLossR"` // equals Losses: every loss is -1R
	TotalR       float64 `json:"totalR"`
	AvgWinR      float64 `json:"avgWinR"`
	AvgR         float64 `json:"avgR"` // TotalR / TotalTrades
	LargestWinR  float64 `json:"largestWinR"`
	ProfitFactor Ratio   `json:"profitFactor"`
	Expectancy   float64 `json:"expectancy"`

	// Currency figures only consider trades with a recorded P&L.
	NetPnL          float64  `json:"netPnl"`
	AvgWinPnL       float64  `json:"avgWinPnl"`
	AvgLossPnL      float64  `json:"avgLossPnl"`
	LargestWinPnL   float64  `json:"largestWinPnl"`
	LargestLossPnL  float64  `json:"largestLossPnl"`
	AvgReturnPct    *float64 `json:"avgReturnPercent"` // nil when no trade has an account size
	MaxConsecWins   int      `json:"maxConsecutiveWins"`
	MaxConsecLosses int      `json:"maxConsecutiveLosses"`
}

// PerformanceReport is the full analytics output for one trade collection.
type PerformanceReport struct {
	Summary           Summary       `json:"summary"`
	Equity            EquityCurve   `json:"equity"`
	PnLDistribution   []Bucket      `json:"pnlDistribution"`
	RDistribution     []Bucket      `json:"rDistribution"`
	ByHour            []TimeSlice   `json:"byHour"`
	ByWeekday         []TimeSlice   `json:"byWeekday"`
	ByDay             []TimeSlice   `json:"byDay"`
	ByMonth           []TimeSlice   `json:"byMonth"`
	BySymbol          []TimeSlice   `json:"bySymbol"`
	Rules             []RuleStat    `json:"rules"`
	DisciplinePercent float64       `json:"disciplinePercent"`
	Mistakes          []MistakeStat `json:"mistakes"`
	Radar             []RadarAxis   `json:"radar"` // nil below the minimum sample size
}

// AnalyticsSnapshot is a flattened, persisted summary of one PerformanceReport.
// Corresponds to analytics_snapshots table in ClickHouse.
type AnalyticsSnapshot struct {
	SnapshotID        string    `json:"snapshotId"`
	AccountID         string    `json:"accountId"`
	ComputedAt        time.Time `json:"computedAt"`
	TotalTrades       int       `json:"totalTrades"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	WinRatePercent    float64   `json:"winRatePercent"`
	TotalR            float64   `json:"totalR"`
	NetPnL            float64   `json:"netPnl"`
	ProfitFactor      Ratio     `json:"profitFactor"`
	Expectancy        float64   `json:"expectancy"`
	MaxDrawdownR      float64   `json:"maxDrawdownR"`
	MaxDrawdownPct    float64   `json:"maxDrawdownPercent"`
	RecoveryFactor    Ratio     `json:"recoveryFactor"`
	DisciplinePercent float64   `json:"disciplinePercent"`
	RadarScore        *float64  `json:"radarScore"` // mean of radar axes, nil when radar not computed
}

// InfinitySymbol is the JSON sentinel for an infinite Ratio.
const InfinitySymbol = "∞"

// Ratio is a float64 that may legitimately be +Inf (e.g. profit factor with no losses).
// It encodes +Inf as "∞" and NaN as null since JSON cannot represent them.
type Ratio float64

// InfiniteRatio returns the +Inf Ratio.
func InfiniteRatio() Ratio { return Ratio(math.Inf(1)) }

// IsInf reports whether the ratio is +Inf.
func (r Ratio) IsInf() bool { return math.IsInf(float64(r), 1) }

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return []byte("null"), nil
	case math.IsInf(f, 1):
		return json.Marshal(InfinitySymbol)
	case math.IsInf(f, -1):
		return json.Marshal("-" + InfinitySymbol)
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio(math.NaN())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case InfinitySymbol:
			*r = InfiniteRatio()
		case "-" + InfinitySymbol:
			*r = Ratio(math.Inf(-1))
		default:
			return fmt.Errorf("invalid ratio %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// String formats the ratio for text reports.
func (r Ratio) String() string {
	if r.IsInf() {
		return InfinitySymbol
	}
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}
