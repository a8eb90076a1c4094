// Package scoring evaluates a trained readiness model over feature
// vectors. The artifact is loaded explicitly at startup; scoring
// itself is pure and lock-free.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/prr/internal/domain/model"
)

// predictor is the uniform capability both model kinds expose.
type predictor interface {
	predict(x []float64) float64
}

// logisticModel returns the positive-class probability.
type logisticModel struct {
	weights   []float64
	intercept float64
}

func (m *logisticModel) predict(x []float64) float64 {
	return sigmoid(dot(m.weights, x) + m.intercept)
}

// linearModel returns its raw prediction clamped into [0,1].
type linearModel struct {
	weights   []float64
	intercept float64
}

func (m *linearModel) predict(x []float64) float64 {
	return clamp01(dot(m.weights, x) + m.intercept)
}

// Score evaluates the model over features. The ordered input is built
// from the artifact's declared feature order; keys absent from the
// mapping resolve to 0, never an error. A non-finite prediction fails
// with ErrScoring.
func (a *Artifact) Score(features model.FeatureVector) (float64, error) {
	x := make([]float64, len(a.meta.FeatureOrder))
	for i, k := range a.meta.FeatureOrder {
		x[i] = features.Get(k, 0)
	}
	p := a.model.predict(x)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: model produced non-finite output", ErrScoring)
	}
	return p, nil
}

func dot(w, x []float64) float64 {
	var s float64
	for i := range w {
		s += w[i] * x[i]
	}
	return s
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
