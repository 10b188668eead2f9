package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"trading-journal/internal/observability"
)

// RouterOptions wires the HTTP surface.
type RouterOptions struct {
	Analytics Analytics
	Checks    map[string]Pinger
	Metrics   *observability.Metrics // optional; enables request metrics and GET /metrics
	Gatherer  prometheus.Gatherer    // served on /metrics; nil serves the default registry
	Logger    *zap.Logger
	Debug     bool
}

// NewRouter builds the gin engine with health, account and metrics routes.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	if opts.Metrics != nil {
		engine.Use(requestMetrics(opts.Metrics))
		handler := observability.Handler()
		if opts.Gatherer != nil {
			handler = observability.HandlerFor(opts.Gatherer)
		}
		engine.GET("/metrics", gin.WrapH(handler))
	}

	health := &HealthHandler{Checks: opts.Checks}
	health.Register(engine)

	accounts := &AccountHandler{Analytics: opts.Analytics, Logger: logger}
	accounts.Register(engine)

	return engine
}
