// Package feature builds per-employee feature vectors from historical
// activity aggregates.
package feature

import (
	"context"
	"fmt"

	"github.com/okian/prr/internal/domain/model"
)

// Feature keys shared between the aggregator, the scorer, and the
// offline label generator.
const (
	KeyOKRAttainment    = "okr_attainment"
	KeyOnTimeRatio      = "on_time_ratio"
	KeyQualityMean      = "quality_mean"
	KeyVelocityTotal    = "velocity_total"
	KeyImpactTotal      = "impact_total"
	KeyFeedbackMean     = "feedback_mean"
	KeyRecognitions     = "recognitions"
	KeyIncidentsWeight  = "incidents_weight"
	KeyCoursesCompleted = "courses_completed"
)

// Keys lists every feature key in a stable order.
func Keys() []string {
	return []string{
		KeyOKRAttainment,
		KeyOnTimeRatio,
		KeyQualityMean,
		KeyVelocityTotal,
		KeyImpactTotal,
		KeyFeedbackMean,
		KeyRecognitions,
		KeyIncidentsWeight,
		KeyCoursesCompleted,
	}
}

// defaults maps each feature key to the value used when an aggregate
// has no underlying rows. Applied uniformly after aggregation so a
// vector is never missing a key. okr_attainment is a placeholder
// constant in the serving path: the okr table exists but no
// aggregation rule has been agreed for it yet.
var defaults = model.FeatureVector{
	KeyOKRAttainment:    0.95,
	KeyOnTimeRatio:      0.9,
	KeyQualityMean:      0.85,
	KeyVelocityTotal:    0,
	KeyImpactTotal:      0,
	KeyFeedbackMean:     4.1,
	KeyRecognitions:     0,
	KeyIncidentsWeight:  0,
	KeyCoursesCompleted: 0,
}

// Defaults returns a copy of the default feature vector.
func Defaults() model.FeatureVector {
	return defaults.Clone()
}

// Source provides read-only aggregates over an employee's history.
// Implementations return a partial vector: keys whose aggregate had no
// underlying rows are absent and resolve to defaults here. The asOf
// date is part of the contract but implementations currently aggregate
// over all history regardless of it; see the builder doc below.
type Source interface {
	Aggregates(ctx context.Context, employeeID int64, asOf string) (model.FeatureVector, error)
}

// Builder computes feature vectors. It does not validate that the
// employee exists: an unknown id yields the all-default vector.
type Builder struct {
	source Source
}

// NewBuilder creates a Builder reading aggregates from source.
func NewBuilder(source Source) *Builder {
	return &Builder{source: source}
}

// Build computes the feature vector for (employeeID, asOf).
//
// asOf is accepted for contract compatibility but does not bound which
// historical rows are eligible: every request aggregates over all
// history. Changing that is a behavior change for trained models and
// must not happen silently.
func (b *Builder) Build(ctx context.Context, employeeID int64, asOf string) (model.FeatureVector, error) {
	agg, err := b.source.Aggregates(ctx, employeeID, asOf)
	if err != nil {
		return nil, fmt.Errorf("aggregate features for employee %d: %w", employeeID, err)
	}
	out := defaults.Clone()
	for k, v := range agg {
		if _, known := defaults[k]; known {
			out[k] = v
		}
	}
	return out, nil
}
