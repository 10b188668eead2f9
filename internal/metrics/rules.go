package metrics

import (
	"sort"

	"trading-journal/internal/domain"
)

// RuleAdherence computes per-rule win rate and net R over the trades that followed each rule.
// Output is ordered by NetR DESC; ties keep the order of rules.
// A rule nobody followed reports zero win rate and zero net R.
func RuleAdherence(trades []*domain.Trade, rules []string) []domain.RuleStat {
	stats := make([]domain.RuleStat, 0, len(rules))
	for _, rule := range rules {
		stat := domain.RuleStat{RuleName: rule}
		for _, t := range trades {
			if t == nil || !t.FollowedRule(rule) {
				continue
			}
			stat.AdherenceCount++
			if isWin(t) {
				stat.Wins++
			} else if isLoss(t) {
				stat.Losses++
			}
			stat.NetR += Resolve(t).R
		}
		stat.WinRatePercent = computeWinRate(stat.Wins, stat.Losses) * 100
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].NetR > stats[j].NetR
	})
	return stats
}

// DisciplinePercent is the share of (trade, rule) pairs where the rule was followed.
// Only canonical rules count; duplicates within a trade count once.
// Returns 0 when there are no trades or no rules.
func DisciplinePercent(trades []*domain.Trade, rules []string) float64 {
	canonical := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		canonical[r] = struct{}{}
	}
	if len(canonical) == 0 {
		return 0
	}

	n, followed := 0, 0
	for _, t := range trades {
		if t == nil {
			continue
		}
		n++
		seen := make(map[string]struct{}, len(t.RulesFollowed))
		for _, r := range t.RulesFollowed {
			if _, ok := canonical[r]; !ok {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			followed++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(followed) / float64(n*len(canonical)) * 100
}

// MistakeBreakdown aggregates trades per mistake tag.
// Ordered by occurrences DESC, then tag ASC.
func MistakeBreakdown(trades []*domain.Trade) []domain.MistakeStat {
	type acc struct {
		stat domain.MistakeStat
		pnl  *money
	}
	byTag := make(map[string]*acc)
	for _, t := range trades {
		if t == nil {
			continue
		}
		res := Resolve(t)
		seen := make(map[string]struct{}, len(t.Mistakes))
		for _, tag := range t.Mistakes {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			a, ok := byTag[tag]
			if !ok {
				a = &acc{stat: domain.MistakeStat{Tag: tag}, pnl: newMoney()}
				byTag[tag] = a
			}
			a.stat.Occurrences++
			a.stat.NetR += res.R
			a.pnl.addPtr(res.PnL)
		}
	}

	out := make([]domain.MistakeStat, 0, len(byTag))
	for _, a := range byTag {
		a.stat.NetPnL = a.pnl.float()
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
