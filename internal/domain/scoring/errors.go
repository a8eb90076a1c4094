package scoring

import "errors"

// Sentinel kinds for scoring errors. These allow errors.Is/As from callers.
var (
	// ErrArtifactLoad reports a missing or corrupt scoring artifact.
	// Fatal for the serving path: readiness scoring requires the artifact.
	ErrArtifactLoad = errors.New("scoring artifact load failed")

	// ErrScoring reports model output that cannot be coerced to a
	// finite scalar. Surfaced to the caller rather than defaulting.
	ErrScoring = errors.New("scoring failed")
)
