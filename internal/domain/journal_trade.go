package domain

import "time"

// Trade represents a single journal entry.
// Corresponds to the trades table in PostgreSQL. The analytics engine treats it as read-only.
type Trade struct {
	ID        string // unique within an account
	AccountID string // owning trading account
	Symbol    string // instrument / pair, may be empty
	Direction string // "LONG" | "SHORT", may be empty

	Date      time.Time // entry timestamp; calendar and weekday keys derive from it
	EntryTime string    // local "HH:MM", empty when not recorded

	Result      Result
	RR          float64  // realized reward-to-risk, only meaningful when Result == ResultWin
	PnL         *float64 // signed currency amount (nullable)
	AccountSize *float64 // account balance at trade time (nullable)

	Mistakes      []string // free-form tags
	RulesFollowed []string // rule names, compared against a canonical RuleSet
	Notes         string
}

// Result is the outcome class of a journal trade.
type Result string

// Result values
const (
	ResultWin       Result = "Win"
	ResultLoss      Result = "Loss"
	ResultBreakEven Result = "BreakEven"
	ResultMissed    Result = "Missed"
)

// Valid reports whether r is one of the known results.
func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultBreakEven, ResultMissed:
		return true
	}
	return false
}

// Direction constants
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// FollowedRule reports whether the trade's rulesFollowed set contains rule.
func (t *Trade) FollowedRule(rule string) bool {
	for _, r := range t.RulesFollowed {
		if r == rule {
			return true
		}
	}
	return false
}

// RuleSet is the canonical ordered list of trading rules for an account.
type RuleSet struct {
	AccountID string
	Rules     []string
	UpdatedAt time.Time
}
