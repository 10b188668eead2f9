package ingestion

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"trading-journal/internal/domain"
	"trading-journal/internal/idhash"
)

// ErrMalformedRow is wrapped by every row-level parse error.
var ErrMalformedRow = errors.New("malformed journal row")

// dateLayouts are tried in order when parsing a trade date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
}

// utf8Reader decodes r to UTF-8, honoring a UTF-8 or UTF-16 byte order mark.
// Input without a BOM is read as UTF-8.
func utf8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// parseResult accepts the outcome in any case, with common abbreviations.
func parseResult(s string) (domain.Result, error) {
	norm := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "win", "w", "won":
		return domain.ResultWin, nil
	case "loss", "l", "lost", "lose":
		return domain.ResultLoss, nil
	case "breakeven", "be":
		return domain.ResultBreakEven, nil
	case "missed", "miss", "missedtrade":
		return domain.ResultMissed, nil
	}
	return "", fmt.Errorf("%w: unknown result %q", ErrMalformedRow, s)
}

// parseDate parses s in loc. hasClock reports whether s carried a time of day.
func parseDate(s string, loc *time.Location) (t time.Time, hasClock bool, err error) {
	s = strings.TrimSpace(s)
	for i, layout := range dateLayouts {
		if parsed, perr := time.ParseInLocation(layout, s, loc); perr == nil {
			return parsed, i > 0 && i < len(dateLayouts)-1, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: invalid date %q", ErrMalformedRow, s)
}

// parseFloat parses a finite number. Empty input yields 0.
func parseFloat(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedRow, field, s)
	}
	return v, nil
}

// parseOptionalFloat is parseFloat with nil for empty input.
func parseOptionalFloat(field, s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseFloat(field, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseList splits a tag list on ';' or '|', dropping blanks.
func parseList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// assignIDs fills missing ids with a content hash.
// Identical rows get distinct ids through their occurrence index.
func assignIDs(trades []*domain.Trade) {
	seen := make(map[string]int)
	for _, t := range trades {
		if t.ID != "" {
			continue
		}
		key := idhash.TradeKey{
			AccountID: t.AccountID,
			Date:      t.Date,
			EntryTime: t.EntryTime,
			Symbol:    t.Symbol,
			Result:    string(t.Result),
			RR:        t.RR,
			PnL:       t.PnL,
		}
		base := idhash.ComputeTradeID(key, 0)
		t.ID = idhash.ComputeTradeID(key, seen[base])
		seen[base]++
	}
}
