package server

import (
	"log/slog"
	"net/http"

	"github.com/tkarimov/cryptostats/internal/ratelimit"
	"github.com/tkarimov/cryptostats/internal/stats"
	"github.com/tkarimov/cryptostats/internal/store"
)

// Config holds HTTP API settings.
type Config struct {
	// DatePattern is the Go reference layout for request start dates.
	DatePattern string
}

// Server wires the statistics engine, rate limiter, and store behind the
// HTTP API.
type Server struct {
	cfg     Config
	engine  *stats.Engine
	limiter *ratelimit.Limiter
	store   store.PriceStore
	logger  *slog.Logger
}

// New creates a Server.
func New(cfg Config, engine *stats.Engine, limiter *ratelimit.Limiter, st store.PriceStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DatePattern == "" {
		cfg.DatePattern = "2006-1-2"
	}
	return &Server{
		cfg:     cfg,
		engine:  engine,
		limiter: limiter,
		store:   st,
		logger:  logger,
	}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	throttled := func(h http.HandlerFunc) http.Handler {
		return s.withRequestID(s.withAccessLog(s.withRateLimit(h)))
	}

	mux.Handle("POST /api/v1/stats/normalized", throttled(s.handleNormalized))
	mux.Handle("POST /api/v1/stats/crypto/{crypto}", throttled(s.handleAssetStats))
	mux.Handle("POST /api/v1/max/normalized", throttled(s.handleMaxNormalized))
	mux.Handle("GET /api/v1/stats/normalized/last-month", throttled(s.lastMonthsHandler(-1)))
	mux.Handle("GET /api/v1/stats/normalized/last-six-months", throttled(s.lastMonthsHandler(-6)))

	mux.Handle("GET /health", s.withRequestID(http.HandlerFunc(s.handleHealth)))

	return mux
}
