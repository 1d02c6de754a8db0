// Package server exposes the planner as MCP-style tools over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/planner"
)

type Config struct {
	Transport       string
	Host            string
	Port            int
	Name            string
	Version         string
	ShutdownTimeout time.Duration
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AharaServer struct {
	httpServer *http.Server
	router     *chi.Mux
	service    *planner.Service
	tools      map[string]tool
	order      []string
	metrics    *Metrics
	pinger     Pinger
	logger     *zap.Logger
	config     *Config
}

type Option func(*AharaServer)

// WithPinger makes /health report the storage connection.
func WithPinger(p Pinger) Option {
	return func(s *AharaServer) {
		s.pinger = p
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *AharaServer) {
		s.metrics = m
	}
}

func NewAharaServer(cfg *Config, service *planner.Service, logger *zap.Logger, opts ...Option) (*AharaServer, error) {
	if cfg.Transport != "" && cfg.Transport != "http" {
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}

	s := &AharaServer{
		service: service,
		logger:  logger,
		config:  cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	s.metrics.SkippedRules.Set(float64(len(service.Issues())))
	for _, issue := range service.Issues() {
		logger.Warn("Skipped incompatibility rule", zap.String("rule_id", issue.RuleID), zap.String("reason", issue.Reason))
	}

	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

func (s *AharaServer) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Post("/", s.handleHTTP)
	r.Get("/tools", s.handleListTools)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *AharaServer) Handler() http.Handler {
	return s.router
}

func (s *AharaServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func (s *AharaServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, apperrors.NewInvalidInputError("invalid JSON: %v", err))
		return
	}

	t, ok := s.tools[request.Name]
	if !ok {
		s.metrics.ToolCalls.WithLabelValues("unknown", string(apperrors.CodeNotFound)).Inc()
		s.writeError(w, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("Unknown tool: %s", request.Name), ""))
		return
	}

	start := time.Now()
	resp, err := t.handle(r.Context(), &request)
	s.metrics.ToolDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())
	if err != nil {
		code := apperrors.GetCode(err)
		s.metrics.ToolCalls.WithLabelValues(t.name, string(code)).Inc()
		if code == apperrors.CodeInternal || code == apperrors.CodeStorage {
			s.logger.Error("Tool failed", zap.String("tool", t.name), zap.Error(err))
		} else {
			s.logger.Info("Tool rejected request", zap.String("tool", t.name), zap.Error(err))
		}
		s.writeError(w, err)
		return
	}
	s.metrics.ToolCalls.WithLabelValues(t.name, "OK").Inc()
	s.metrics.ObserveResponse(resp)

	result, err := createJSONResponse(resp)
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to encode response"))
		return
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

type errorBody struct {
	Error *apperrors.AppError `json:"error"`
}

func (s *AharaServer) writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, "An unexpected error occurred")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(errorBody{Error: appErr}); err != nil {
		s.logger.Error("Failed to encode error", zap.Error(err))
	}
}

type healthResponse struct {
	Status       string                  `json:"status"`
	Server       protocol.Implementation `json:"server"`
	Tools        int                     `json:"tools"`
	SkippedRules int                     `json:"skipped_rules"`
	Storage      string                  `json:"storage"`
}

func (s *AharaServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := healthResponse{
		Status:       "ok",
		Server:       protocol.Implementation{Name: s.config.Name, Version: s.config.Version},
		Tools:        len(s.tools),
		SkippedRules: len(s.service.Issues()),
		Storage:      "disabled",
	}
	status := http.StatusOK
	if s.pinger != nil {
		body.Storage = "ok"
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("Storage ping failed", zap.Error(err))
			body.Status = "degraded"
			body.Storage = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode health", zap.Error(err))
	}
}

// Start serves until the listener fails or ctx is cancelled, in which case it drains like Stop.
func (s *AharaServer) Start(ctx context.Context) error {
	s.logger.Info("Starting ahara server", zap.String("address", s.httpServer.Addr), zap.Int("tools", len(s.tools)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Context cancelled, stopping ahara server")
		return s.Stop(context.Background())
	}
}

// Stop drains in-flight requests, waiting at most the configured shutdown timeout.
func (s *AharaServer) Stop(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
