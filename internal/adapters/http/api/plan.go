// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/prr/internal/app"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/internal/domain/scoring"
)

// PlanDependencies defines the interface for plan recommendation.
type PlanDependencies interface {
	RecommendPlan(ctx context.Context, employeeID int64, asOf string) (app.PlanResult, error)
}

// PlanHandler handles development plan requests.
type PlanHandler struct {
	deps PlanDependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps PlanDependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

type planResponse struct {
	EmployeeID     int64      `json:"employee_id"`
	ReadinessScore float64    `json:"readiness_score"`
	Gaps           []string   `json:"gaps"`
	Plan           model.Plan `json:"plan"`
}

// HandleRecommend handles POST /v1/plan/recommend requests.
func (h *PlanHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.plan_recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.RecommendPlan(r.Context(), req.EmployeeID, req.AsOf)
	if err != nil {
		if errors.Is(err, scoring.ErrScoring) {
			writeError(w, http.StatusUnprocessableEntity, "scoring_error", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		EmployeeID:     res.EmployeeID,
		ReadinessScore: round3(res.Score),
		Gaps:           res.Gaps,
		Plan:           res.Plan,
	})
}
