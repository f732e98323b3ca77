// Package chi exposes the bookfinder HTTP API on a chi router.
package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/logger"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
)

// Request defaults.
const (
	DefaultTopK = 3
	DefaultLang = "vi"
	maxTopK     = 50
	maxBodySize = 1 << 20
)

// Server serves the chat, search, session and health endpoints.
type Server struct {
	chat          Responder
	search        Retriever
	sessions      Sessions
	health        HealthChecker
	logger        *zap.Logger
	defaultTopK   int
	defaultLang   string
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat Responder,
	search Retriever,
	sessions Sessions,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:          chat,
		search:        search,
		sessions:      sessions,
		health:        health,
		logger:        logger,
		defaultTopK:   DefaultTopK,
		defaultLang:   DefaultLang,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithDefaults overrides the topK and language used when a request omits them.
func (s *Server) WithDefaults(topK int, lang string) *Server {
	if topK > 0 {
		s.defaultTopK = topK
	}
	if lang != "" {
		s.defaultLang = lang
	}
	return s
}

// RouterConfig holds middleware settings.
type RouterConfig struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router(cfg RouterConfig) http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(s.logger))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(metrics.Middleware())

	s.Mount(r)
	return r
}

// Mount registers the API routes on r.
func (s *Server) Mount(r gochi.Router) {
	r.Post("/response", s.Respond)
	r.Post("/search", s.Search)

	r.Route("/sessions", func(r gochi.Router) {
		r.Post("/", s.SaveSession)
		r.Get("/", s.ListSessions)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Patch("/{id}/title", s.RenameSession)
		r.Get("/{id}/autocomplete", s.Autocomplete)
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
}

// Respond handles POST /response.
func (s *Server) Respond(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.chat.Respond(r.Context(), req.Query, s.lang(req.Lang), req.SessionID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, responseBody{
		Response: resp.Text,
		Intent:   string(resp.Intent),
		Cached:   resp.Cached,
	})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > maxTopK {
		writeError(w, http.StatusBadRequest, codeInvalidQuery,
			"top_k must be between 1 and "+strconv.Itoa(maxTopK))
		return
	}

	records, err := s.search.Search(r.Context(), req.Query, topK, s.lang(req.Lang))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: recordsToResults(records)})
}

// SaveSession handles POST /sessions.
func (s *Server) SaveSession(w http.ResponseWriter, r *http.Request) {
	var req saveSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := s.sessions.Save(r.Context(), req.SessionID, req.Messages)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Title: sess.Title})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessions.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: list})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Title: sess.Title, Messages: sess.Messages})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RenameSession handles PATCH /sessions/{id}/title.
func (s *Server) RenameSession(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := gochi.URLParam(r, "id")
	if err := s.sessions.Rename(r.Context(), id, req.NewTitle); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Title: strings.TrimSpace(req.NewTitle)})
}

// Autocomplete handles GET /sessions/{id}/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var prefix string
	if err := runtime.BindQueryParameter("form", true, true, "input_prefix", q, &prefix); err != nil || prefix == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "input_prefix is required")
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil ||
		(limit != nil && *limit < 1) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
		return
	}

	completions, err := s.sessions.Autocomplete(r.Context(), gochi.URLParam(r, "id"), prefix, derefOr(limit, 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if completions == nil {
		completions = []string{}
	}

	writeJSON(w, http.StatusOK, autocompleteResponse{Completions: completions})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	})
}

func (s *Server) lang(requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	return s.defaultLang
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l := logger.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
