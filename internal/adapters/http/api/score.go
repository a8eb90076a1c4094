// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/prr/internal/app"
	"github.com/okian/prr/internal/domain/scoring"
)

// ScoreDependencies defines the interface for scoring requests.
type ScoreDependencies interface {
	ScorePromotion(ctx context.Context, employeeID int64, asOf string) (app.ScoreResult, error)
}

// ScoreHandler handles promotion scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest is the POST /v1/promotion/score body.
type scoreRequest struct {
	EmployeeID int64  `json:"employee_id"`
	AsOf       string `json:"as_of"`
}

func (s *scoreRequest) normalize() error {
	if s.EmployeeID <= 0 {
		return errors.New("missing employee_id")
	}
	if s.AsOf == "" {
		s.AsOf = defaultAsOf
	}
	return nil
}

// scoreResponse mirrors the upstream scoring contract.
type scoreResponse struct {
	EmployeeID     int64   `json:"employee_id"`
	Employee       *string `json:"employee"`
	AsOf           string  `json:"as_of"`
	ReadinessScore float64 `json:"readiness_score"`
	Decision       string  `json:"decision"`
	Confidence     float64 `json:"confidence"`
}

// HandleScore handles POST /v1/promotion/score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.promotion_score"
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

	res, err := h.deps.ScorePromotion(r.Context(), req.EmployeeID, req.AsOf)
	if err != nil {
		if errors.Is(err, scoring.ErrScoring) {
			writeError(w, http.StatusUnprocessableEntity, "scoring_error", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		EmployeeID:     res.EmployeeID,
		Employee:       res.EmployeeName,
		AsOf:           res.AsOf,
		ReadinessScore: round3(res.Score),
		Decision:       string(res.Decision),
		Confidence:     res.Confidence,
	})
}
