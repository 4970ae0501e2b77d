// Package server exposes the scoring, benchmark, and analysis engines over
// a thin HTTP API. All computation lives in the engine packages; handlers
// only load inputs, run the pure computation, and encode the output.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/civicstack/maturity-cli/internal/analysis"
	"github.com/civicstack/maturity-cli/internal/benchmark"
	"github.com/civicstack/maturity-cli/internal/config"
	"github.com/civicstack/maturity-cli/internal/model"
	"github.com/civicstack/maturity-cli/internal/scoring"
	"github.com/civicstack/maturity-cli/internal/store"
)

// Server wires the store and engines behind HTTP routes.
type Server struct {
	store store.Store
	cfg   config.ServerConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Server over the given store.
func New(st store.Store, cfg config.ServerConfig) *Server {
	return &Server{
		store:    st,
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)
	r.Route("/api/surveys/{surveyID}", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Get("/results", s.handleListResults)
		r.Get("/results/{orgID}", s.handleGetResult)
		r.Get("/benchmark", s.handleBenchmark)
		r.Get("/organizations/{orgID}/analysis", s.handleAnalysis)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// throttle applies a per-client-IP token bucket.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		s.mu.Lock()
		lim, ok := s.limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
			s.limiters[ip] = lim
		}
		s.mu.Unlock()

		if !lim.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScore recomputes results for every organization with responses.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	surveyID := chi.URLParam(r, "surveyID")

	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("survey %s not found", surveyID))
		return
	}

	responses, err := s.store.ListResponses(ctx, surveyID, store.ResponseFilter{CompletedOnly: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list responses")
		return
	}

	byOrg := make(map[string][]model.Response)
	for i := range responses {
		byOrg[responses[i].OrganizationID] = append(byOrg[responses[i].OrganizationID], responses[i])
	}

	var scored int
	for orgID, subset := range byOrg {
		result := scoring.ScoreOrganization(survey, orgID, subset)
		if err := s.store.SaveResult(ctx, result); err != nil {
			zap.L().Error("server: save result failed",
				zap.String("organization_id", orgID),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "save result")
			return
		}
		scored++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"survey_id":            surveyID,
		"organizations_scored": scored,
	})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")
	results, err := s.store.ListResults(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list results")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")
	orgID := chi.URLParam(r, "orgID")
	result, err := s.store.GetResult(r.Context(), surveyID, orgID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("result %s/%s not found", surveyID, orgID))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	surveyID := chi.URLParam(r, "surveyID")

	survey, results, orgs, responses, ok := s.loadCorpus(ctx, w, surveyID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, benchmark.Compute(survey, results, orgs, responses))
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	surveyID := chi.URLParam(r, "surveyID")
	orgID := chi.URLParam(r, "orgID")

	survey, results, orgs, responses, ok := s.loadCorpus(ctx, w, surveyID)
	if !ok {
		return
	}

	bench := benchmark.Compute(survey, results, orgs, responses)
	report, err := analysis.Analyze(survey, orgID, orgs, results, bench)
	if err != nil {
		// A missing organization is a caller error, not a server fault.
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "no survey result") {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "analyze organization")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// loadCorpus fetches the schema, results, organization directory, and
// responses a corpus-level computation needs. On failure it writes the
// error response and returns ok = false.
func (s *Server) loadCorpus(ctx context.Context, w http.ResponseWriter, surveyID string) (survey *model.Survey, results []model.Result, orgs []model.Organization, responses []model.Response, ok bool) {
	sv, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("survey %s not found", surveyID))
		return nil, nil, nil, nil, false
	}
	res, err := s.store.ListResults(ctx, surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list results")
		return nil, nil, nil, nil, false
	}
	os, err := s.store.ListOrganizations(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list organizations")
		return nil, nil, nil, nil, false
	}
	resp, err := s.store.ListResponses(ctx, surveyID, store.ResponseFilter{CompletedOnly: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list responses")
		return nil, nil, nil, nil, false
	}
	return sv, res, os, resp, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
