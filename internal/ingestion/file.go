package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// NewFileSource picks a TradeSource from the file extension (.csv or .json).
func NewFileSource(path, accountID string, loc *time.Location) (TradeSource, string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return &CSVSource{Path: path, AccountID: accountID, Location: loc}, "csv", nil
	case ".json":
		return &JSONSource{Path: path, AccountID: accountID, Location: loc}, "json", nil
	default:
		return nil, "", fmt.Errorf("unsupported journal format %q (want .csv or .json)", ext)
	}
}
