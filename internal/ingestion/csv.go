package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// csvColumns maps accepted header spellings to canonical column names.
var csvColumns = map[string]string{
	"id": "id", "trade_id": "id", "tradeid": "id",
	"account": "account_id", "account_id": "account_id", "accountid": "account_id",
	"date": "date", "trade_date": "date", "tradedate": "date",
	"entry_time": "entry_time", "entrytime": "entry_time", "time": "entry_time",
	"symbol": "symbol", "pair": "symbol", "instrument": "symbol",
	"direction": "direction", "side": "direction",
	"result": "result", "outcome": "result",
	"rr": "rr", "r": "rr", "risk_reward": "rr",
	"pnl": "pnl", "profit": "pnl",
	"account_size": "account_size", "accountsize": "account_size", "balance": "account_size",
	"mistakes": "mistakes",
	"rules_followed": "rules_followed", "rulesfollowed": "rules_followed", "rules": "rules_followed",
	"notes": "notes",
}

var headerReplacer = strings.NewReplacer(" ", "_", "-", "_")

// CSVSource reads a header-driven CSV journal export.
type CSVSource struct {
	Path      string
	AccountID string         // used when a row has no account column
	Location  *time.Location // for dates without a zone; UTC when nil
}

// Load implements TradeSource.
func (s *CSVSource) Load(_ context.Context) (*Export, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", s.Path, err)
	}
	defer f.Close()

	trades, err := ParseCSV(f, s.AccountID, s.Location)
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", s.Path, err)
	}
	return &Export{Trades: trades}, nil
}

// ParseCSV decodes a CSV export. The header row is required; date and result columns are mandatory.
// Errors name the offending line.
func ParseCSV(r io.Reader, accountID string, loc *time.Location) ([]*domain.Trade, error) {
	if loc == nil {
		loc = time.UTC
	}

	cr := csv.NewReader(utf8Reader(r))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []*domain.Trade{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
		if col, ok := csvColumns[key]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	for _, required := range []string{"date", "result"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: header missing %q column", ErrMalformedRow, required)
		}
	}

	var trades []*domain.Trade
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		t, err := buildTrade(rawTrade{
			ID:            get("id"),
			AccountID:     get("account_id"),
			Date:          get("date"),
			EntryTime:     get("entry_time"),
			Symbol:        get("symbol"),
			Direction:     get("direction"),
			Result:        get("result"),
			RR:            get("rr"),
			PnL:           get("pnl"),
			AccountSize:   get("account_size"),
			Mistakes:      parseList(get("mistakes")),
			RulesFollowed: parseList(get("rules_followed")),
			Notes:         get("notes"),
		}, accountID, loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}

	assignIDs(trades)
	if trades == nil {
		trades = []*domain.Trade{}
	}
	return trades, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// rawTrade is a row before validation; numbers are still text.
type rawTrade struct {
	ID, AccountID, Date, EntryTime string
	Symbol, Direction, Result      string
	RR, PnL, AccountSize           string
	Mistakes, RulesFollowed        []string
	Notes                          string
}

func buildTrade(raw rawTrade, defaultAccount string, loc *time.Location) (*domain.Trade, error) {
	result, err := parseResult(raw.Result)
	if err != nil {
		return nil, err
	}
	date, hasClock, err := parseDate(raw.Date, loc)
	if err != nil {
		return nil, err
	}
	rr, err := parseFloat("rr", raw.RR)
	if err != nil {
		return nil, err
	}
	pnl, err := parseOptionalFloat("pnl", raw.PnL)
	if err != nil {
		return nil, err
	}
	size, err := parseOptionalFloat("account_size", raw.AccountSize)
	if err != nil {
		return nil, err
	}

	entry := raw.EntryTime
	if entry == "" && hasClock {
		entry = date.Format("15:04")
	}
	account := raw.AccountID
	if account == "" {
		account = defaultAccount
	}

	return &domain.Trade{
		ID:            raw.ID,
		AccountID:     account,
		Symbol:        raw.Symbol,
		Direction:     normalizeDirection(raw.Direction),
		Date:          date,
		EntryTime:     entry,
		Result:        result,
		RR:            rr,
		PnL:           pnl,
		AccountSize:   size,
		Mistakes:      raw.Mistakes,
		RulesFollowed: raw.RulesFollowed,
		Notes:         raw.Notes,
	}, nil
}

func normalizeDirection(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy", "l":
		return domain.DirectionLong
	case "short", "sell", "s":
		return domain.DirectionShort
	}
	return strings.TrimSpace(s)
}
