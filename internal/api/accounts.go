package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trading-journal/internal/domain"
	"trading-journal/internal/metrics"
	"trading-journal/internal/reporting"
	"trading-journal/internal/storage"
)

// Analytics computes reports and snapshots for accounts.
// *metrics.Aggregator implements it.
type Analytics interface {
	Bins() (pnlBins, rBins int)
	ComputeReportWithBins(ctx context.Context, accountID string, w metrics.Window, pnlBins, rBins int) (*domain.PerformanceReport, error)
	ComputeAndStore(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error)
	Snapshots(ctx context.Context, accountID string) ([]*domain.AnalyticsSnapshot, error)
}

// maxBins caps caller-supplied histogram bin counts.
const maxBins = 100

const dateLayout = "2006-01-02"

// AccountHandler serves per-account analytics under /api/v1/accounts/:id.
type AccountHandler struct {
	Analytics Analytics
	Logger    *zap.Logger
}

// Register mounts the account routes on r.
func (h *AccountHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/accounts/:id")
	group.GET("/report", h.report)
	group.GET("/summary", h.summary)
	group.GET("/equity", h.equity)
	group.GET("/radar", h.radar)
	group.GET("/rules", h.rules)
	group.GET("/time/:granularity", h.timeSlices)
	group.GET("/snapshots", h.listSnapshots)
	group.POST("/snapshots", h.createSnapshot)
}

// reportQuery is the parsed window and binning of a report request.
type reportQuery struct {
	window  metrics.Window
	pnlBins int
	rBins   int
}

func (q reportQuery) meta(accountID string) map[string]any {
	m := map[string]any{
		"account": accountID,
		"pnlBins": q.pnlBins,
		"rBins":   q.rBins,
	}
	if !q.window.From.IsZero() {
		m["from"] = q.window.From.Format(dateLayout)
	}
	if !q.window.To.IsZero() {
		m["to"] = q.window.To.Format(dateLayout)
	}
	return m
}

// parseReportQuery reads from/to (yyyy-MM-dd, UTC, both inclusive) and pnl_bins/r_bins.
func parseReportQuery(c *gin.Context, defaultPnL, defaultR int) (reportQuery, error) {
	q := reportQuery{pnlBins: defaultPnL, rBins: defaultR}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("invalid from %q: want YYYY-MM-DD", raw)
		}
		q.window.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("invalid to %q: want YYYY-MM-DD", raw)
		}
		// Inclusive through the end of the day.
		q.window.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !q.window.From.IsZero() && !q.window.To.IsZero() && q.window.To.Before(q.window.From) {
		return q, errors.New("to must not be before from")
	}

	var err error
	if q.pnlBins, err = parseBins(c, "pnl_bins", q.pnlBins); err != nil {
		return q, err
	}
	if q.rBins, err = parseBins(c, "r_bins", q.rBins); err != nil {
		return q, err
	}
	return q, nil
}

func parseBins(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxBins {
		return 0, fmt.Errorf("invalid %s %q: want an integer in 1..%d", key, raw, maxBins)
	}
	return n, nil
}

// load parses the request and computes the report, writing an error response on failure.
func (h *AccountHandler) load(c *gin.Context) (*domain.PerformanceReport, map[string]any, bool) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "analytics unavailable", nil)
		return nil, nil, false
	}
	accountID := c.Param("id")

	pnlBins, rBins := h.Analytics.Bins()
	q, err := parseReportQuery(c, pnlBins, rBins)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return nil, nil, false
	}

	report, err := h.Analytics.ComputeReportWithBins(c.Request.Context(), accountID, q.window, q.pnlBins, q.rBins)
	if err != nil {
		h.fail(c, err)
		return nil, nil, false
	}
	return report, q.meta(accountID), true
}

func (h *AccountHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, metrics.ErrSnapshotsDisabled):
		Error(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.Warn("analytics request failed", zap.String("account", c.Param("id")), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}

func (h *AccountHandler) report(c *gin.Context) {
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, report, meta)
}

func (h *AccountHandler) summary(c *gin.Context) {
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, report.Summary, meta)
}

func (h *AccountHandler) equity(c *gin.Context) {
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, report.Equity, meta)
}

func (h *AccountHandler) radar(c *gin.Context) {
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, gin.H{
		"axes":  report.Radar,
		"score": metrics.RadarScore(report.Radar),
	}, meta)
}

func (h *AccountHandler) rules(c *gin.Context) {
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, gin.H{
		"rules":             report.Rules,
		"disciplinePercent": report.DisciplinePercent,
		"mistakes":          report.Mistakes,
	}, meta)
}

func (h *AccountHandler) timeSlices(c *gin.Context) {
	granularity := c.Param("granularity")
	if !reporting.KnownGranularity(granularity) {
		Error(c, http.StatusBadRequest, fmt.Sprintf("unknown granularity %q", granularity), nil)
		return
	}
	report, meta, ok := h.load(c)
	if !ok {
		return
	}
	slices, _ := reporting.Slices(report, granularity)
	meta["granularity"] = granularity
	Ok(c, slices, meta)
}

func (h *AccountHandler) listSnapshots(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "analytics unavailable", nil)
		return
	}
	snaps, err := h.Analytics.Snapshots(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if snaps == nil {
		snaps = []*domain.AnalyticsSnapshot{}
	}
	Ok(c, snaps, map[string]any{"account": c.Param("id"), "count": len(snaps)})
}

func (h *AccountHandler) createSnapshot(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "analytics unavailable", nil)
		return
	}
	snap, err := h.Analytics.ComputeAndStore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, snap, map[string]any{"account": c.Param("id")})
}
