package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"

	"github.com/arbor-social/arbor/moderation"
	"github.com/arbor-social/arbor/moderation/engine"
	"github.com/arbor-social/arbor/moderation/reputation"
	"github.com/arbor-social/arbor/ratelimit"
)

type Server struct {
	logger  *slog.Logger
	engine  *moderation.Engine
	limiter *ratelimit.Limiter
	echo    *echo.Echo
}

type Config struct {
	Bind             string
	RedisURL         string
	RulesFileJSON    string
	ActionWebhookURL string
	StrictMode       bool
	FailClosed       bool
	SpamThreshold    float64
	AuditCapacity    int
	EvalTimeout      time.Duration
	Logger           *slog.Logger
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	ruleSet := moderation.DefaultRules()
	if config.RulesFileJSON != "" {
		if err := ruleSet.LoadFromFileJSON(config.RulesFileJSON); err != nil {
			return nil, fmt.Errorf("loading rules config: %w", err)
		}
		logger.Info("loaded rules config from JSON", "path", config.RulesFileJSON)
	}

	var repStore moderation.ReputationStore
	if config.RedisURL != "" {
		rs, err := reputation.NewRedisStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis reputation store: %w", err)
		}
		repStore = rs
		logger.Info("using redis reputation backend")
	} else {
		repStore = reputation.NewMemStore()
	}

	engineCfg := moderation.DefaultConfig()
	engineCfg.StrictMode = config.StrictMode
	engineCfg.FailClosed = config.FailClosed
	engineCfg.SpamThreshold = config.SpamThreshold
	engineCfg.AuditCapacity = config.AuditCapacity
	engineCfg.EvalTimeout = config.EvalTimeout

	eng := moderation.NewEngine(engineCfg, ruleSet, repStore, logger)
	if config.ActionWebhookURL != "" {
		eng.Executor = &engine.WebhookExecutor{URL: config.ActionWebhookURL}
		logger.Info("configured action webhook executor")
	}

	s := &Server{
		logger:  logger,
		engine:  eng,
		limiter: ratelimit.NewLimiter(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())

	e.GET("/health", s.handleHealth)
	e.POST("/moderation/evaluate", s.handleEvaluate)
	e.POST("/ratelimit/check", s.handleRateLimitCheck)
	e.PUT("/ratelimit/config/:identifier", s.handleRateLimitConfig)
	e.GET("/audit/entries", s.handleAuditQuery)
	e.GET("/audit/report", s.handleAuditReport)
	s.echo = e

	return s, nil
}

func (s *Server) RunAPI(listen string) error {
	s.logger.Info("starting moderation API", "bind", listen)
	return s.echo.Start(listen)
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(c echo.Context) error {
	var evt moderation.ContentEvent
	if err := c.Bind(&evt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event body")
	}
	if evt.CreatedAt == 0 {
		evt.CreatedAt = time.Now().Unix()
	}
	eval, err := s.engine.Evaluate(c.Request().Context(), &evt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	evaluateRequestCount.Inc()
	return c.JSON(http.StatusOK, eval)
}

type rateLimitCheckRequest struct {
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	Dimension  string `json:"dimension"`
	Cost       int64  `json:"cost"`
}

func (s *Server) handleRateLimitCheck(c echo.Context) error {
	var req rateLimitCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Identifier == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "identifier is required")
	}
	decision := s.limiter.Allow(req.Identifier, ratelimit.IdentifierType(req.Type), ratelimit.Dimension(req.Dimension), req.Cost)
	status := http.StatusOK
	if !decision.Allowed {
		status = http.StatusTooManyRequests
		c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(decision.RetryAfter.Seconds()+0.5), 10))
	}
	return c.JSON(status, decision)
}

type rateLimitConfigRequest struct {
	Type        string `json:"type"`
	WindowSec   int64  `json:"window"`
	MaxRequests int64  `json:"max_requests"`
	MaxEvents   int64  `json:"max_events"`
	MaxBytes    int64  `json:"max_bytes"`
	Strategy    string `json:"strategy"`
}

func (s *Server) handleRateLimitConfig(c echo.Context) error {
	identifier := c.Param("identifier")
	var req rateLimitConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid config body")
	}
	cfg := ratelimit.Config{
		Type:        ratelimit.IdentifierType(req.Type),
		Window:      time.Duration(req.WindowSec) * time.Second,
		MaxRequests: req.MaxRequests,
		MaxEvents:   req.MaxEvents,
		MaxBytes:    req.MaxBytes,
		Strategy:    ratelimit.Strategy(req.Strategy),
	}
	if err := s.limiter.SetConfig(identifier, cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.logger.Info("rate limit configured", "identifier", identifier, "type", req.Type)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAuditQuery(c echo.Context) error {
	filters := moderation.AuditQueryFilters{
		Action: c.QueryParam("action"),
	}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid 'since' timestamp")
		}
		filters.Since = t
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid 'limit'")
		}
		filters.Limit = n
	}
	return c.JSON(http.StatusOK, s.engine.Audit.Query(filters))
}

func (s *Server) handleAuditReport(c echo.Context) error {
	window := 24 * time.Hour
	if v := c.QueryParam("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid 'window' duration")
		}
		window = d
	}
	return c.JSON(http.StatusOK, s.engine.Audit.GenerateComplianceReport(window))
}
