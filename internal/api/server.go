// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/api/handler"
	"github.com/dkoster/smartdca/internal/api/job"
	"github.com/dkoster/smartdca/internal/api/middleware"
	"github.com/dkoster/smartdca/internal/dca"
	"github.com/dkoster/smartdca/internal/metrics"
)

const version = "1.0.0"

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	APIKey         string
	AllowedOrigins []string
	MetricsPath    string
}

// Server is the HTTP server exposing the Smart DCA API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the HTTP server and wires all routes
func NewServer(cfg Config, service *dca.Service, jobs *job.Store, reg *metrics.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	analyze := handler.NewAnalyzeHandler(service, logger)
	simulate := handler.NewSimulateHandler(service, jobs, reg, logger)

	mux.HandleFunc("GET /api", handleInfo)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/analyze", analyze.Create)
	mux.HandleFunc("POST /api/simulate", simulate.Create)
	mux.HandleFunc("GET /api/simulate/{id}", simulate.GetStatus)

	var root http.Handler = middleware.APIKeyAuth(cfg.APIKey)(mux)
	if reg != nil {
		root = metrics.HTTPMiddleware(reg)(root)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-API-Key"},
		AllowCredentials: true,
	})
	root = c.Handler(root)

	outer := http.NewServeMux()
	outer.Handle("/api", root)
	outer.Handle("/api/", root)
	if reg != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		outer.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      outer,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"message":"Smart DCA Calculator API","version":%q,"endpoints":{"analyze":"/api/analyze","simulate":"/api/simulate","health":"/api/health"}}`, version)
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
