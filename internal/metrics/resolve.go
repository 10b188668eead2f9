package metrics

import (
	"math"

	"trading-journal/internal/domain"
)

// LossR is the fixed R contributed by every losing trade.
// Each trade risks exactly one unit, so a stored rr on a loss is ignored.
const LossR = -1.0

// Resolution is a trade's outcome in risk multiples and currency.
type Resolution struct {
	R   float64
	PnL *float64 // passed through, nil when not recorded or not finite
}

// Resolve converts a trade into its signed R-multiple and P&L.
// Win → rr, Loss → -1, BreakEven/Missed → 0.
func Resolve(t *domain.Trade) Resolution {
	if t == nil {
		return Resolution{}
	}
	return Resolution{R: resolveR(t), PnL: finite(t.PnL)}
}

// finite returns v, or nil when v is missing, NaN or infinite.
func finite(v *float64) *float64 {
	if v == nil || !isFinite(*v) {
		return nil
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func resolveR(t *domain.Trade) float64 {
	switch t.Result {
	case domain.ResultWin:
		return t.RR
	case domain.ResultLoss:
		return LossR
	default:
		return 0
	}
}

// ReturnPercent computes pnl / accountSize * 100.
// ok is false when either value is missing, the account size is not positive
// or the result overflows.
func ReturnPercent(t *domain.Trade) (pct float64, ok bool) {
	if t == nil {
		return 0, false
	}
	pnl, size := finite(t.PnL), finite(t.AccountSize)
	if pnl == nil || size == nil || *size <= 0 {
		return 0, false
	}
	pct = *pnl / *size * 100
	if !isFinite(pct) {
		return 0, false
	}
	return pct, true
}

// isWin and isLoss are the only outcomes counted in win-rate denominators.
func isWin(t *domain.Trade) bool  { return t.Result == domain.ResultWin }
func isLoss(t *domain.Trade) bool { return t.Result == domain.ResultLoss }

// computeWinRate calculates win rate as wins / (wins + losses).
// Break-even and missed trades never enter the denominator.
func computeWinRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}
