// Package gaps derives competency gaps from a feature vector via
// fixed threshold rules.
package gaps

import (
	"strings"

	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/model"
)

// Rule thresholds. Evaluation order is part of the contract: the
// returned list preserves rule order, not severity.
const (
	feedbackThreshold = 4.0
	onTimeThreshold   = 0.8
	qualityThreshold  = 0.78
	velocityThreshold = 20000
	maxGaps           = 3
)

// Named competency gaps.
const (
	GapLeadership        = "Leadership"
	GapTimeManagement    = "Time Management"
	GapAttentionToDetail = "Attention to Detail"
	GapSystemDesign      = "System Design"
)

// Infer returns a prioritized list of at most three competency gaps.
// It never returns an empty list: when no rule fires the default gap
// is Leadership.
func Infer(features model.FeatureVector, orgUnit string) []string {
	var out []string
	if features.Get(feature.KeyFeedbackMean, 4.1) < feedbackThreshold {
		out = append(out, GapLeadership)
	}
	if features.Get(feature.KeyOnTimeRatio, 0.9) < onTimeThreshold {
		out = append(out, GapTimeManagement)
	}
	if features.Get(feature.KeyQualityMean, 0.85) < qualityThreshold {
		out = append(out, GapAttentionToDetail)
	}
	if strings.Contains(orgUnit, "Software") && features.Get(feature.KeyVelocityTotal, 0) < velocityThreshold {
		out = append(out, GapSystemDesign)
	}
	if len(out) > maxGaps {
		out = out[:maxGaps]
	}
	if len(out) == 0 {
		out = []string{GapLeadership}
	}
	return out
}
