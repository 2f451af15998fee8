// Package chi is the HTTP transport: hand-written handlers on a chi router
// exposing the query pipeline, tool discovery and service status.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	healthuc "github.com/kailas-cloud/ragpipe/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/ragpipe/internal/usecase/pipeline"
	"github.com/kailas-cloud/ragpipe/internal/version"
)

// Error response codes.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeUpstream     = "provider_error"
	codeInternal     = "internal_error"
)

const maxQueryBytes = 1 << 16

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// queryRequest is the POST /v1/query body.
type queryRequest struct {
	Query  string `json:"query"`
	Stream bool   `json:"stream,omitempty"`
}

// Server holds the handlers for the query API.
type Server struct {
	orchestrator *pipelineuc.Orchestrator
	registry     pipelineuc.ToolExecutor
	health       *healthuc.Service
	corpusSize   int
	logger       *zap.Logger
	started      time.Time
}

// NewServer creates the HTTP API server.
func NewServer(
	orchestrator *pipelineuc.Orchestrator,
	registry pipelineuc.ToolExecutor,
	health *healthuc.Service,
	corpusSize int,
	logger *zap.Logger,
) *Server {
	return &Server{
		orchestrator: orchestrator,
		registry:     registry,
		health:       health,
		corpusSize:   corpusSize,
		logger:       logger,
		started:      time.Now(),
	}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Get("/v1/tools", s.handleTools)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleQuery runs one orchestrated pipeline query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	body := http.MaxBytesReader(w, r.Body, maxQueryBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.orchestrator.Run(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleTools lists tool discovery schemas.
func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": s.registry.List(),
	})
}

// handleStatus reports component readiness and execution counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":        version.Version,
		"commit":         version.Commit,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"corpus_size":    s.corpusSize,
		"orchestrator":   s.orchestrator.Info(),
	})
}

// handleHealth runs the component probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidDocument):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrToolNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeError(w, http.StatusBadGateway, codeUpstream, domain.ErrProviderUnavailable.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
