package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// jsonTrade is the wire shape of one exported trade.
type jsonTrade struct {
	ID            string   `json:"id"`
	AccountID     string   `json:"accountId"`
	Date          string   `json:"date"`
	EntryTime     *string  `json:"entryTime"`
	Symbol        string   `json:"symbol"`
	Direction     string   `json:"direction"`
	Result        string   `json:"result"`
	RR            *float64 `json:"rr"`
	PnL           *float64 `json:"pnl"`
	AccountSize   *float64 `json:"accountSize"`
	Mistakes      []string `json:"mistakes"`
	RulesFollowed []string `json:"rulesFollowed"`
	Notes         string   `json:"notes"`
}

// jsonExport is the object form of an export: trades plus the canonical rule list.
type jsonExport struct {
	Trades []jsonTrade `json:"trades"`
	Rules  []string    `json:"rules"`
}

// JSONSource reads a JSON journal export: either an array of trades or
// an object {"trades": [...], "rules": [...]}.
type JSONSource struct {
	Path      string
	AccountID string
	Location  *time.Location
}

// Load implements TradeSource.
func (s *JSONSource) Load(_ context.Context) (*Export, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open json %s: %w", s.Path, err)
	}
	defer f.Close()

	exp, err := ParseJSON(f, s.AccountID, s.Location)
	if err != nil {
		return nil, fmt.Errorf("parse json %s: %w", s.Path, err)
	}
	return exp, nil
}

// ParseJSON decodes a JSON export. Errors name the offending trade index.
func ParseJSON(r io.Reader, accountID string, loc *time.Location) (*Export, error) {
	if loc == nil {
		loc = time.UTC
	}

	data, err := io.ReadAll(utf8Reader(r))
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)

	var exp jsonExport
	switch {
	case len(data) == 0:
		return &Export{Trades: []*domain.Trade{}}, nil
	case data[0] == '[':
		if err := json.Unmarshal(data, &exp.Trades); err != nil {
			return nil, fmt.Errorf("decode trades: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &exp); err != nil {
			return nil, fmt.Errorf("decode export: %w", err)
		}
	}

	trades := make([]*domain.Trade, 0, len(exp.Trades))
	for i, jt := range exp.Trades {
		raw := rawTrade{
			ID:            strings.TrimSpace(jt.ID),
			AccountID:     strings.TrimSpace(jt.AccountID),
			Date:          jt.Date,
			Symbol:        strings.TrimSpace(jt.Symbol),
			Direction:     jt.Direction,
			Result:        jt.Result,
			Mistakes:      cleanList(jt.Mistakes),
			RulesFollowed: cleanList(jt.RulesFollowed),
			Notes:         jt.Notes,
		}
		if jt.EntryTime != nil {
			raw.EntryTime = strings.TrimSpace(*jt.EntryTime)
		}

		t, err := buildTrade(raw, accountID, loc)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		if jt.RR != nil {
			t.RR = *jt.RR
		}
		t.PnL = jt.PnL
		t.AccountSize = jt.AccountSize
		trades = append(trades, t)
	}

	assignIDs(trades)
	return &Export{Trades: trades, Rules: cleanList(exp.Rules)}, nil
}

// cleanList trims entries and drops blanks. Nil stays nil.
func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
