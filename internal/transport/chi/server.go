// Package chi exposes the HTTP API: auth, task and subtask CRUD, profile,
// and the AI endpoints (suggestions, backfill, semantic search).
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	logpkg "github.com/tasknest/tasknest/internal/logger"
	authuc "github.com/tasknest/tasknest/internal/usecase/auth"
	backfilluc "github.com/tasknest/tasknest/internal/usecase/backfill"
	healthuc "github.com/tasknest/tasknest/internal/usecase/health"
	profileuc "github.com/tasknest/tasknest/internal/usecase/profile"
	searchuc "github.com/tasknest/tasknest/internal/usecase/search"
	subtaskuc "github.com/tasknest/tasknest/internal/usecase/subtask"
	suggestuc "github.com/tasknest/tasknest/internal/usecase/suggest"
	taskuc "github.com/tasknest/tasknest/internal/usecase/task"
)

// ErrorCode identifies an error class in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeNotFound              ErrorCode = "not_found"
	CodeEmailTaken            ErrorCode = "email_taken"
	CodeProviderError         ErrorCode = "ai_provider_error"
	CodeInvalidAIResponse     ErrorCode = "invalid_ai_response"
	CodeProviderNotConfigured ErrorCode = "ai_not_configured"
	CodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the usecase services behind the HTTP handlers.
type Server struct {
	auth          *authuc.Service
	tasks         *taskuc.Service
	subtasks      *subtaskuc.Service
	profiles      *profileuc.Service
	search        *searchuc.Service
	backfill      *backfilluc.Service
	suggest       *suggestuc.Service
	health        *healthuc.Service
	verifier      TokenVerifier
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	auth *authuc.Service,
	tasks *taskuc.Service,
	subtasks *subtaskuc.Service,
	profiles *profileuc.Service,
	search *searchuc.Service,
	backfill *backfilluc.Service,
	suggest *suggestuc.Service,
	health *healthuc.Service,
	verifier TokenVerifier,
	logger *zap.Logger,
) *Server {
	s := &Server{
		auth:     auth,
		tasks:    tasks,
		subtasks: subtasks,
		profiles: profiles,
		search:   search,
		backfill: backfill,
		suggest:  suggest,
		health:   health,
		verifier: verifier,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrEmailTaken, http.StatusConflict, CodeEmailTaken),
		sentinelHandler(domain.ErrMalformedSuggestion, http.StatusBadGateway, CodeInvalidAIResponse),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrProviderNotConfigured, http.StatusServiceUnavailable, CodeProviderNotConfigured),
	}
	return s
}

// RegisterRoutes mounts all endpoints on the router. Auth endpoints, health
// and metrics are public; everything else goes through the token middleware.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.Signup)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Get("/tasks", s.ListTasks)
			r.Post("/tasks", s.CreateTask)
			r.Get("/tasks/stats", s.TaskStats)
			r.Get("/tasks/{id}", s.GetTask)
			r.Patch("/tasks/{id}", s.UpdateTask)
			r.Delete("/tasks/{id}", s.DeleteTask)

			r.Get("/tasks/{id}/subtasks", s.ListSubtasks)
			r.Post("/tasks/{id}/subtasks", s.CreateSubtask)
			r.Patch("/subtasks/{id}", s.UpdateSubtask)
			r.Delete("/subtasks/{id}", s.DeleteSubtask)

			r.Get("/profile", s.GetProfile)
			r.Patch("/profile", s.UpdateProfile)

			r.Post("/ai/suggest-subtasks", s.SuggestSubtasks)
			r.Post("/ai/backfill-embeddings", s.BackfillEmbeddings)
			r.Post("/ai/search", s.SearchTasks)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidCredentials,
		domain.ErrNotFound,
		domain.ErrEmailTaken,
		domain.ErrMalformedSuggestion,
		domain.ErrProviderUnavailable,
		domain.ErrProviderNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
