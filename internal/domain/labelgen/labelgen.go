// Package labelgen synthesizes training labels from feature vectors.
//
// The composite readiness score is a fixed linear combination of the
// serving features; the binary label thresholds it at the cohort's
// 80th percentile (top quintile). Optional label noise keeps the
// synthetic rule from being perfectly learnable.
package labelgen

import (
	"math"
	"math/rand"
	"sort"

	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/internal/domain/policy"
)

// Composite score weights. These are training-time constants and must
// stay in sync with the documented labeling rule, not with the served
// model.
const (
	weightOKR        = 0.22
	weightFeedback   = 0.18
	weightRecognized = 0.12
	weightCourses    = 0.12
	weightOnTime     = 0.12
	weightQuality    = 0.12
	weightVelocity   = 0.07
	weightImpact     = 0.05
	incidentPenalty  = 0.12

	labelQuantile    = 0.8
	borderlineMargin = 0.05
)

// Row is one cohort member: features plus the org unit used for
// grouped cross-validation.
type Row struct {
	EmployeeID int64
	OrgUnit    string
	Features   model.FeatureVector
}

// Result holds the labels derived for a cohort in row order.
type Result struct {
	Threshold  float64
	Composites []float64
	Labels     []int
	Decisions  []policy.Decision
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithNoise sets the independent label flip probability.
func WithNoise(rate float64) Option {
	return func(g *Generator) {
		if rate >= 0 && rate <= 1 {
			g.noiseRate = rate
		}
	}
}

// WithSeed sets the seed for the noise source. Labels are reproducible
// for a fixed seed and cohort.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// Generator derives labels for a training cohort.
type Generator struct {
	noiseRate float64
	seed      int64
}

// NewGenerator creates a Generator. Noise is off unless WithNoise is
// given.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 42}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Composite computes the fixed weighted readiness score for one
// feature vector. The incident penalty applies whenever any weighted
// incident exists, regardless of magnitude.
func Composite(f model.FeatureVector) float64 {
	s := weightOKR*f.Get(feature.KeyOKRAttainment, 0) +
		weightFeedback*f.Get(feature.KeyFeedbackMean, 0)/5.0 +
		weightRecognized*f.Get(feature.KeyRecognitions, 0) +
		weightCourses*f.Get(feature.KeyCoursesCompleted, 0) +
		weightOnTime*f.Get(feature.KeyOnTimeRatio, 0) +
		weightQuality*f.Get(feature.KeyQualityMean, 0) +
		weightVelocity*f.Get(feature.KeyVelocityTotal, 0) +
		weightImpact*f.Get(feature.KeyImpactTotal, 0)
	if f.Get(feature.KeyIncidentsWeight, 0) > 0 {
		s -= incidentPenalty
	}
	return s
}

// Quantile returns the q-quantile of values using linear interpolation
// between closest ranks, matching the labeling pipeline the composite
// threshold was defined with. values must be non-empty.
func Quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Generate computes composites, the per-run 80th-percentile threshold,
// binary labels, and decision strings for the cohort. Label noise, if
// configured, flips each label independently with the configured
// probability using the seeded source; it does not affect decisions,
// which reflect the noiseless rule.
func (g *Generator) Generate(rows []Row) Result {
	res := Result{
		Composites: make([]float64, len(rows)),
		Labels:     make([]int, len(rows)),
		Decisions:  make([]policy.Decision, len(rows)),
	}
	if len(rows) == 0 {
		return res
	}
	for i, r := range rows {
		res.Composites[i] = Composite(r.Features)
	}
	res.Threshold = Quantile(res.Composites, labelQuantile)
	for i, c := range res.Composites {
		if c >= res.Threshold {
			res.Labels[i] = 1
		}
		res.Decisions[i] = policy.Decide(c, res.Threshold, res.Threshold-borderlineMargin)
	}
	if g.noiseRate > 0 {
		rng := rand.New(rand.NewSource(g.seed))
		for i := range res.Labels {
			if rng.Float64() < g.noiseRate {
				res.Labels[i] = 1 - res.Labels[i]
			}
		}
	}
	return res
}
