package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/metrics"
)

// Analyzer computes performance reports for accounts.
// *metrics.Aggregator implements it.
type Analyzer interface {
	Bins() (pnlBins, rBins int)
	RuleSet(ctx context.Context, accountID string) ([]string, error)
	ComputeReportWithBins(ctx context.Context, accountID string, w metrics.Window, pnlBins, rBins int) (*domain.PerformanceReport, error)
}

// Generator produces reports from stored data.
type Generator struct {
	analyzer Analyzer
	pnlBins  int
	rBins    int
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator using the analyzer's default bin counts.
func NewGenerator(analyzer Analyzer) *Generator {
	pnlBins, rBins := analyzer.Bins()
	return &Generator{
		analyzer: analyzer,
		pnlBins:  pnlBins,
		rBins:    rBins,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithBins overrides the histogram bin counts. Non-positive values keep the current setting.
func (g *Generator) WithBins(pnlBins, rBins int) *Generator {
	if pnlBins > 0 {
		g.pnlBins = pnlBins
	}
	if rBins > 0 {
		g.rBins = rBins
	}
	return g
}

// Generate produces the report of accountID over window w.
func (g *Generator) Generate(ctx context.Context, accountID string, w metrics.Window) (*Report, error) {
	rules, err := g.analyzer.RuleSet(ctx, accountID)
	if err != nil {
		return nil, err
	}

	perf, err := g.analyzer.ComputeReportWithBins(ctx, accountID, w, g.pnlBins, g.rBins)
	if err != nil {
		return nil, err
	}

	r := &Report{
		GeneratedAt: g.now(),
		AccountID:   accountID,
		Rules:       rules,
		PnLBins:     g.pnlBins,
		RBins:       g.rBins,
		Performance: perf,
	}
	if n := len(perf.ByDay); n > 0 {
		r.FirstDay = perf.ByDay[0].Key
		r.LastDay = perf.ByDay[n-1].Key
	}
	return r, nil
}

// WriteBundle renders r into outputDir and returns the written paths.
func WriteBundle(outputDir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	timeSlices, err := RenderTimeSlicesCSV(r.Performance)
	if err != nil {
		return nil, fmt.Errorf("render time slices: %w", err)
	}
	rules, err := RenderRulesCSV(r.Performance.Rules)
	if err != nil {
		return nil, fmt.Errorf("render rules: %w", err)
	}
	dist, err := RenderDistributionCSV(r.Performance)
	if err != nil {
		return nil, fmt.Errorf("render distribution: %w", err)
	}
	js, err := RenderJSON(r)
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{MarkdownFile, []byte(RenderMarkdown(r))},
		{TimeSlicesFile, []byte(timeSlices)},
		{RuleFile, []byte(rules)},
		{DistributionFile, []byte(dist)},
		{JSONFile, js},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outputDir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
