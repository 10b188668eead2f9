package reporting

import (
	"encoding/json"
	"time"

	"trading-journal/internal/domain"
)

type jsonReport struct {
	GeneratedAt string                    `json:"generatedAt"`
	AccountID   string                    `json:"accountId"`
	FirstDay    string                    `json:"firstDay,omitempty"`
	LastDay     string                    `json:"lastDay,omitempty"`
	Rules       []string                  `json:"rules"`
	PnLBins     int                       `json:"pnlBins"`
	RBins       int                       `json:"rBins"`
	Report      *domain.PerformanceReport `json:"report"`
}

// RenderJSON renders report as indented JSON.
// Infinite ratios are encoded as "∞".
func RenderJSON(r *Report) ([]byte, error) {
	rules := r.Rules
	if rules == nil {
		rules = []string{}
	}
	out := jsonReport{
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		AccountID:   r.AccountID,
		FirstDay:    r.FirstDay,
		LastDay:     r.LastDay,
		Rules:       rules,
		PnLBins:     r.PnLBins,
		RBins:       r.RBins,
		Report:      r.Performance,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
