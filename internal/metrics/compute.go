package metrics

import (
	"math"

	"trading-journal/internal/domain"
)

// Summarize reduces a trade collection into scalar statistics.
// Order-dependent fields (streaks) use chronological order.
func Summarize(trades []*domain.Trade) domain.Summary {
	sorted := sortChronologically(trades)
	n := len(sorted)
	if n == 0 {
		return domain.Summary{}
	}

	var (
		s           domain.Summary
		winR        float64
		winPnL      = newMoney()
		lossPnL     = newMoney()
		netPnL      = newMoney()
		returns     = newMoney()
		largestWin  = math.Inf(-1)
		largestLoss = math.Inf(1)
	)

	s.TotalTrades = n
	for _, t := range sorted {
		res := Resolve(t)
		s.TotalR += res.R

		switch t.Result {
		case domain.ResultWin:
			s.Wins++
			winR += res.R
			if res.R > s.LargestWinR {
				s.LargestWinR = res.R
			}
		case domain.ResultLoss:
			s.Losses++
		case domain.ResultBreakEven:
			s.BreakEvens++
		case domain.ResultMissed:
			s.Missed++
		}
		if res.R > 0 {
			s.GrossProfitR += res.R
		}

		if res.PnL != nil {
			p := *res.PnL
			netPnL.add(p)
			if p > 0 {
				winPnL.add(p)
				largestWin = math.Max(largestWin, p)
			} else if p < 0 {
				lossPnL.add(p)
				largestLoss = math.Min(largestLoss, p)
			}
		}
		if pct, ok := ReturnPercent(t); ok {
			returns.add(pct)
		}
	}

	s.GrossLossR = float64(s.Losses) * -LossR
	s.WinRate = computeWinRate(s.Wins, s.Losses)
	s.WinRatePercent = s.WinRate * 100
	if s.Wins > 0 {
		s.AvgWinR = winR / float64(s.Wins)
	}
	s.AvgR = s.TotalR / float64(n)
	s.ProfitFactor = computeProfitFactor(s.GrossProfitR, s.GrossLossR)
	s.Expectancy = computeExpectancy(s.WinRate, s.AvgWinR, s.Wins+s.Losses)

	s.NetPnL = netPnL.float()
	s.AvgWinPnL = winPnL.mean()
	s.AvgLossPnL = lossPnL.mean()
	if winPnL.n > 0 {
		s.LargestWinPnL = largestWin
	}
	if lossPnL.n > 0 {
		s.LargestLossPnL = largestLoss
	}
	if returns.n > 0 {
		avg := returns.mean()
		s.AvgReturnPct = &avg
	}

	s.MaxConsecWins = computeMaxStreak(sorted, isWin)
	s.MaxConsecLosses = computeMaxStreak(sorted, isLoss)
	return s
}

// computeProfitFactor calculates gross profit R / gross loss R.
// +Inf when there are profits but no losses, 0 when both are zero.
func computeProfitFactor(grossProfitR, grossLossR float64) domain.Ratio {
	if grossLossR == 0 {
		if grossProfitR > 0 {
			return domain.InfiniteRatio()
		}
		return 0
	}
	return domain.Ratio(grossProfitR / grossLossR)
}

// computeExpectancy calculates winRate * avgWinR - (1 - winRate) * 1.
// Returns 0 when no trade was decided (wins + losses == 0).
func computeExpectancy(winRate, avgWinR float64, decided int) float64 {
	if decided == 0 {
		return 0
	}
	return winRate*avgWinR - (1-winRate)*(-LossR)
}

// computeMaxStreak finds the longest run of consecutive trades matching pred.
// Break-even and missed trades end a streak. Trades must be in chronological order.
func computeMaxStreak(trades []*domain.Trade, pred func(*domain.Trade) bool) int {
	maxStreak := 0
	currentStreak := 0

	for _, t := range trades {
		if pred(t) {
			currentStreak++
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
