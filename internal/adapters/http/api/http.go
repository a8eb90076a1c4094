// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"

	"github.com/okian/prr/internal/app"
	"github.com/okian/prr/internal/domain/model"
)

// defaultAsOf mirrors the historical dataset cutoff used when a
// request omits as_of. Note the aggregator does not bound rows by it;
// it is echoed back for traceability.
const defaultAsOf = "2014-12-31"

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service.
type Dependencies interface {
	ScorePromotion(ctx context.Context, employeeID int64, asOf string) (app.ScoreResult, error)
	RecommendPlan(ctx context.Context, employeeID int64, asOf string) (app.PlanResult, error)
	ExplainLocal(ctx context.Context, employeeID int64, asOf string) (app.ExplainResult, error)

	// Ingest path: idempotency plus async enqueue.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueActivity(ctx context.Context, e model.ActivityEvent) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoreHandler    *ScoreHandler
	planHandler     *PlanHandler
	explainHandler  *ExplainHandler
	fairnessHandler *FairnessHandler
	eventsHandler   *EventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		scoreHandler:    NewScoreHandler(deps),
		planHandler:     NewPlanHandler(deps),
		explainHandler:  NewExplainHandler(deps),
		fairnessHandler: NewFairnessHandler(),
		eventsHandler:   NewEventsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/ingest/health", MetricsMiddleware(s.healthHandler.HandleHealth, "ingest_health"))
	mux.HandleFunc("/v1/ingest/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "ingest_events"))
	mux.HandleFunc("/v1/promotion/score", MetricsMiddleware(s.scoreHandler.HandleScore, "promotion_score"))
	mux.HandleFunc("/v1/plan/recommend", MetricsMiddleware(s.planHandler.HandleRecommend, "plan_recommend"))
	mux.HandleFunc("/v1/explain/local", MetricsMiddleware(s.explainHandler.HandleLocal, "explain_local"))
	mux.HandleFunc("/v1/fairness/summary", MetricsMiddleware(s.fairnessHandler.HandleSummary, "fairness_summary"))
}

// handleRoot lists the exposed endpoints.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"app":    "prr",
		"status": "ok",
		"endpoints": []string{
			"GET  /v1/ingest/health",
			"POST /v1/ingest/events",
			"POST /v1/promotion/score",
			"POST /v1/plan/recommend",
			"GET  /v1/explain/local?employee_id=1",
			"GET  /v1/fairness/summary",
		},
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// round3 formats scores for responses.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
