// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/prr/internal/app"
)

// ExplainDependencies defines the interface for local explanations.
type ExplainDependencies interface {
	ExplainLocal(ctx context.Context, employeeID int64, asOf string) (app.ExplainResult, error)
}

// ExplainHandler handles local explanation requests.
type ExplainHandler struct {
	deps ExplainDependencies
}

// NewExplainHandler creates a new explain handler.
func NewExplainHandler(deps ExplainDependencies) *ExplainHandler {
	return &ExplainHandler{deps: deps}
}

type explainResponse struct {
	EmployeeID int64        `json:"employee_id"`
	TopFactors []app.Factor `json:"top_factors"`
}

// HandleLocal handles GET /v1/explain/local?employee_id=N requests.
func (h *ExplainHandler) HandleLocal(w http.ResponseWriter, r *http.Request) {
	const op = "api.explain_local"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		asOf = defaultAsOf
	}

	res, err := h.deps.ExplainLocal(r.Context(), employeeID, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{
		EmployeeID: res.EmployeeID,
		TopFactors: res.TopFactors,
	})
}
