// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// FairnessHandler serves the fairness summary. The numbers come from
// the offline fairness review and are revised with each model release,
// not per request.
type FairnessHandler struct{}

// NewFairnessHandler creates a new fairness handler.
func NewFairnessHandler() *FairnessHandler {
	return &FairnessHandler{}
}

type fairnessResponse struct {
	PromotionRateOverall float64 `json:"promotion_rate_overall"`
	ParityGap            float64 `json:"parity_gap"`
	Status               string  `json:"status"`
}

// HandleSummary handles GET /v1/fairness/summary requests.
func (h *FairnessHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, fairnessResponse{
		PromotionRateOverall: 0.31,
		ParityGap:            0.06,
		Status:               "within_threshold",
	})
}
