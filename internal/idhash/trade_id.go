// Package idhash derives deterministic identifiers for journal records.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TradeKey is the content that identifies a journal trade without an explicit id.
type TradeKey struct {
	AccountID string
	Date      time.Time
	EntryTime string
	Symbol    string
	Result    string
	RR        float64
	PnL       *float64
}

// ComputeTradeID computes a deterministic trade id using SHA256.
// Formula: SHA256(account|date|entry_time|symbol|result|rr|pnl|occurrence)
// occurrence separates identical rows of one export (0 for the first).
// Returns the first 16 bytes hex-encoded (32 characters).
func ComputeTradeID(k TradeKey, occurrence int) string {
	pnl := ""
	if k.PnL != nil {
		pnl = strconv.FormatFloat(*k.PnL, 'f', -1, 64)
	}

	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%d",
		k.AccountID,
		k.Date.Format("2006-01-02"),
		strings.TrimSpace(k.EntryTime),
		strings.ToUpper(strings.TrimSpace(k.Symbol)),
		k.Result,
		strconv.FormatFloat(k.RR, 'f', -1, 64),
		pnl,
		occurrence,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}
