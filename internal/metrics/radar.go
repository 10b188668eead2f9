package metrics

import (
	"math"

	"trading-journal/internal/domain"
)

// Normalization caps for radar axes.
const (
	ProfitFactorCap   = 5.0
	RecoveryFactorCap = 10.0
	ExpectancyCap     = 1.0
	DrawdownPctCap    = 50.0

	// MinRadarTrades is the smallest sample the radar is computed for.
	MinRadarTrades = 3
)

// Radar axis names
const (
	AxisWinRate        = "Win Rate"
	AxisDiscipline     = "Discipline"
	AxisDrawdown       = "Drawdown"
	AxisExpectancy     = "Expectancy"
	AxisRecoveryFactor = "Recovery Factor"
	AxisProfitFactor   = "Profit Factor"
)

// RadarInput carries the scalars mapped onto the radar.
type RadarInput struct {
	TradeCount        int
	WinRatePercent    float64
	DisciplinePercent float64
	MaxDrawdownPct    float64
	Expectancy        float64
	RecoveryFactor    domain.Ratio
	ProfitFactor      domain.Ratio
}

// Normalize maps v onto [0, 100] as v / limit * 100. NaN maps to 0; +Inf to 100.
func Normalize(v, limit float64) float64 {
	if limit <= 0 || math.IsNaN(v) {
		return 0
	}
	return clamp(v/limit*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// BuildRadar normalizes the six radar metrics.
// Returns nil when fewer than MinRadarTrades trades back the inputs.
func BuildRadar(in RadarInput) []domain.RadarAxis {
	if in.TradeCount < MinRadarTrades {
		return nil
	}
	return []domain.RadarAxis{
		{Name: AxisWinRate, RawValue: domain.Ratio(in.WinRatePercent), NormalizedValue: clamp(in.WinRatePercent, 0, 100)},
		{Name: AxisDiscipline, RawValue: domain.Ratio(in.DisciplinePercent), NormalizedValue: clamp(in.DisciplinePercent, 0, 100)},
		{Name: AxisDrawdown, RawValue: domain.Ratio(in.MaxDrawdownPct), NormalizedValue: 100 - Normalize(in.MaxDrawdownPct, DrawdownPctCap)},
		{Name: AxisExpectancy, RawValue: domain.Ratio(in.Expectancy), NormalizedValue: Normalize(in.Expectancy, ExpectancyCap)},
		{Name: AxisRecoveryFactor, RawValue: in.RecoveryFactor, NormalizedValue: Normalize(float64(in.RecoveryFactor), RecoveryFactorCap)},
		{Name: AxisProfitFactor, RawValue: in.ProfitFactor, NormalizedValue: Normalize(float64(in.ProfitFactor), ProfitFactorCap)},
	}
}

// RadarScore is the mean normalized value of axes, or nil when there are none.
func RadarScore(axes []domain.RadarAxis) *float64 {
	if len(axes) == 0 {
		return nil
	}
	sum := 0.0
	for _, a := range axes {
		sum += a.NormalizedValue
	}
	score := sum / float64(len(axes))
	return &score
}
