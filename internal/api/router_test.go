package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
	"trading-journal/internal/metrics"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage/memory"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func ptr(v float64) *float64 { return &v }

func seedTrades() []*domain.Trade {
	return []*domain.Trade{
		{
			AccountID: "main", ID: "t1", Symbol: "EURUSD", EntryTime: "09:30",
			Date:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			Result: domain.ResultWin, RR: 2, PnL: ptr(200), RulesFollowed: []string{"Plan"},
		},
		{
			AccountID: "main", ID: "t2",
			Date:   time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			Result: domain.ResultLoss, PnL: ptr(-100), Mistakes: []string{"FOMO"},
		},
		{
			AccountID: "main", ID: "t3",
			Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Result: domain.ResultWin, RR: 1, PnL: ptr(100), RulesFollowed: []string{"Plan"},
		},
	}
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, withSnapshots bool, checks map[string]Pinger) *testServer {
	t.Helper()
	ctx := context.Background()

	trades := memory.NewTradeStore()
	require.NoError(t, trades.InsertBulk(ctx, seedTrades()))
	rules := memory.NewRuleSetStore()
	require.NoError(t, rules.Put(ctx, &domain.RuleSet{AccountID: "main", Rules: []string{"Plan", "Stop"}}))

	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg, "test")

	opts := []metrics.AggregatorOption{
		metrics.WithBins(10, 5),
		metrics.WithMetrics(m),
		metrics.WithIDGenerator(func() string { return "snap-1" }),
		metrics.WithClock(func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }),
	}
	var agg *metrics.Aggregator
	if withSnapshots {
		agg = metrics.NewAggregator(trades, rules, memory.NewSnapshotStore(), opts...)
	} else {
		agg = metrics.NewAggregator(trades, rules, nil, opts...)
	}

	router := NewRouter(RouterOptions{
		Analytics: agg,
		Checks:    checks,
		Metrics:   m,
		Gatherer:  reg,
	})
	return &testServer{handler: router}
}

func (s *testServer) do(t *testing.T, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, _ := s.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)
}

func TestReady_FailingCheck(t *testing.T) {
	s := newTestServer(t, false, map[string]Pinger{
		"clickhouse": func(context.Context) error { return nil },
		"postgres":   func(context.Context) error { return errors.New("connection refused") },
	})

	rec, _ := s.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres_unreachable")
}

func TestReport(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/main/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "main", env.Meta["account"])
	assert.Equal(t, 10.0, env.Meta["pnlBins"])

	var report domain.PerformanceReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 3, report.Summary.TotalTrades)
	assert.Len(t, report.Equity.Points, 4)
	assert.Len(t, report.ByWeekday, 7)
}

func TestReport_UnknownAccountIsNeutral(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/nobody/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 0, summary.TotalTrades)
}

func TestSummary_Window(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/main/summary?from=2024-03-02&to=2024-03-02")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-02", env.Meta["from"])
	assert.Equal(t, "2024-03-02", env.Meta["to"])

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.TotalTrades)
	assert.Equal(t, 1, summary.Losses)
}

func TestQueryValidation(t *testing.T) {
	s := newTestServer(t, false, nil)

	tests := []struct {
		name string
		path string
	}{
		{"bad from", "/api/v1/accounts/main/summary?from=03/01/2024"},
		{"bad to", "/api/v1/accounts/main/summary?to=yesterday"},
		{"reversed window", "/api/v1/accounts/main/summary?from=2024-03-05&to=2024-03-01"},
		{"zero bins", "/api/v1/accounts/main/report?pnl_bins=0"},
		{"too many bins", "/api/v1/accounts/main/report?r_bins=1000"},
		{"unknown granularity", "/api/v1/accounts/main/time/quarter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestReport_BinOverride(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/main/report?pnl_bins=4&r_bins=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, env.Meta["pnlBins"])
	assert.Equal(t, 2.0, env.Meta["rBins"])
}

func TestTimeSlices(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/main/time/weekday")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "weekday", env.Meta["granularity"])

	var slices []domain.TimeSlice
	require.NoError(t, json.Unmarshal(env.Data, &slices))
	require.Len(t, slices, 7)
	assert.Equal(t, "Sunday", slices[0].Key)

	_, env = s.do(t, http.MethodGet, "/api/v1/accounts/main/time/symbol")
	require.NoError(t, json.Unmarshal(env.Data, &slices))
	require.Len(t, slices, 1)
	assert.Equal(t, "EURUSD", slices[0].Key)
}

func TestRadarAndRules(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/accounts/main/radar")
	require.Equal(t, http.StatusOK, rec.Code)
	var radar struct {
		Axes  []domain.RadarAxis `json:"axes"`
		Score *float64           `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &radar))
	assert.NotEmpty(t, radar.Axes)
	assert.NotNil(t, radar.Score)

	rec, env = s.do(t, http.MethodGet, "/api/v1/accounts/main/rules")
	require.Equal(t, http.StatusOK, rec.Code)
	var rules struct {
		Rules             []domain.RuleStat    `json:"rules"`
		DisciplinePercent float64              `json:"disciplinePercent"`
		Mistakes          []domain.MistakeStat `json:"mistakes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rules))
	require.Len(t, rules.Rules, 2)
	assert.Equal(t, "Plan", rules.Rules[0].RuleName)
	assert.Equal(t, 2, rules.Rules[0].AdherenceCount)
	require.Len(t, rules.Mistakes, 1)
	assert.Equal(t, "FOMO", rules.Mistakes[0].Tag)
}

func TestSnapshots(t *testing.T) {
	s := newTestServer(t, true, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/accounts/main/snapshots")
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap domain.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "snap-1", snap.SnapshotID)
	assert.Equal(t, 3, snap.TotalTrades)

	rec, env = s.do(t, http.MethodGet, "/api/v1/accounts/main/snapshots")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, env.Meta["count"])
}

func TestSnapshots_Disabled(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/accounts/main/snapshots")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/accounts/main/snapshots")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, false, nil)

	s.do(t, http.MethodGet, "/api/v1/accounts/main/summary")
	rec, _ := s.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `test_http_requests_total{code="200",route="/api/v1/accounts/:id/summary"} 1`)
	assert.Contains(t, body, "test_analytics_reports_total")
}

type countingAnalytics struct {
	Analytics
	reports int
}

func (c *countingAnalytics) ComputeReportWithBins(ctx context.Context, accountID string, w metrics.Window, pnlBins, rBins int) (*domain.PerformanceReport, error) {
	c.reports++
	return c.Analytics.ComputeReportWithBins(ctx, accountID, w, pnlBins, rBins)
}

func TestTimeSlices_UnknownGranularitySkipsCompute(t *testing.T) {
	analytics := &countingAnalytics{
		Analytics: metrics.NewAggregator(memory.NewTradeStore(), memory.NewRuleSetStore(), nil),
	}
	srv := &testServer{handler: NewRouter(RouterOptions{Analytics: analytics})}

	rec, env := srv.do(t, http.MethodGet, "/api/v1/accounts/main/time/quarter")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "quarter")
	assert.Equal(t, 0, analytics.reports)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/accounts/main/time/month")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, analytics.reports)
}
