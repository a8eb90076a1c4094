package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside the model directory.
const (
	metadataFile = "features.json"
	modelFile    = "model.json"
)

// Closed set of model kinds the scorer can evaluate.
const (
	// KindLogistic is a probabilistic classifier: the score is the
	// positive-class probability from a logistic model.
	KindLogistic = "logistic"
	// KindLinear is a point predictor: the raw prediction is coerced
	// into [0,1].
	KindLinear = "linear"
)

// Metadata records training provenance alongside the model. The scorer
// depends only on FeatureOrder; ModelType is informational and an
// unrecognized value is tolerated.
type Metadata struct {
	FeatureOrder    []string `json:"feature_order"`
	ModelType       string   `json:"model_type"`
	Calibrated      bool     `json:"calibrated"`
	LabelNoiseRate  float64  `json:"label_noise_flip_rate"`
	CrossValidation string   `json:"cv"`
}

// modelSpec is the on-disk shape of model.json.
type modelSpec struct {
	Kind      string    `json:"kind"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Artifact is an externally trained, immutable scoring function plus
// its metadata. Built once at startup and passed by handle into
// request handlers; safe for concurrent use.
type Artifact struct {
	meta  Metadata
	model predictor
}

// Load reads the artifact from dir. Missing or malformed files fail
// fast with ErrArtifactLoad; there is no graceful degradation.
func Load(dir string) (*Artifact, error) {
	meta, err := loadMetadata(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}
	spec, err := loadModelSpec(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, err
	}
	if len(spec.Weights) != len(meta.FeatureOrder) {
		return nil, fmt.Errorf("%w: model has %d weights but metadata declares %d features",
			ErrArtifactLoad, len(spec.Weights), len(meta.FeatureOrder))
	}

	var m predictor
	switch spec.Kind {
	case KindLogistic:
		m = &logisticModel{weights: spec.Weights, intercept: spec.Intercept}
	case KindLinear:
		m = &linearModel{weights: spec.Weights, intercept: spec.Intercept}
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", ErrArtifactLoad, spec.Kind)
	}
	return &Artifact{meta: meta, model: m}, nil
}

// FeatureOrder returns the declared input ordering. Callers must not
// mutate the returned slice.
func (a *Artifact) FeatureOrder() []string {
	return a.meta.FeatureOrder
}

// Meta returns the artifact metadata.
func (a *Artifact) Meta() Metadata {
	return a.meta
}

func loadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: parse %s: %v", ErrArtifactLoad, metadataFile, err)
	}
	if len(meta.FeatureOrder) == 0 {
		return Metadata{}, fmt.Errorf("%w: empty feature_order", ErrArtifactLoad)
	}
	return meta, nil
}

func loadModelSpec(path string) (modelSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return modelSpec{}, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	var spec modelSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return modelSpec{}, fmt.Errorf("%w: parse %s: %v", ErrArtifactLoad, modelFile, err)
	}
	return spec, nil
}
