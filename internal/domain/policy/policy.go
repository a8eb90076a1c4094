// Package policy maps readiness scores to promotion decisions.
package policy

import "math"

// Decision is the three-way promotion outcome.
type Decision string

// Possible decisions, ordered from strongest to weakest.
const (
	Promote    Decision = "PROMOTE"
	Borderline Decision = "BORDERLINE"
	Hold       Decision = "HOLD"
)

// Confidence heuristic constants: base confidence plus distance from
// the 0.5 decision boundary, capped so the result stays below 1.0.
const (
	confidenceBase = 0.8
	confidenceCap  = 0.16
)

// Decide maps a score to a decision. Boundaries are inclusive; the
// function is total over all reals. Thresholds are process
// configuration, not per-employee.
func Decide(score, promoteThreshold, borderlineThreshold float64) Decision {
	switch {
	case score >= promoteThreshold:
		return Promote
	case score >= borderlineThreshold:
		return Borderline
	default:
		return Hold
	}
}

// Confidence expresses "more confident the further from the decision
// boundary", rounded to two decimals and capped at 0.96.
func Confidence(score float64) float64 {
	c := confidenceBase + math.Min(confidenceCap, math.Abs(score-0.5))
	return math.Round(c*100) / 100
}
