package app

import (
	"github.com/okian/prr/internal/adapters/repository"
	"github.com/okian/prr/internal/domain/scoring"
	"github.com/okian/prr/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatabaseURL selects the Postgres store. Empty keeps the
// in-memory store.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// WithStore injects a pre-built store, overriding WithDatabaseURL.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithModelDir sets the scoring artifact directory.
func WithModelDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.modelDir = dir
		}
	}
}

// WithArtifact injects a pre-loaded scoring artifact, overriding
// WithModelDir.
func WithArtifact(artifact *scoring.Artifact) Option {
	return func(s *Service) {
		if artifact != nil {
			s.artifact = artifact
		}
	}
}

// WithThresholds sets the decision policy thresholds.
func WithThresholds(promote, borderline float64) Option {
	return func(s *Service) {
		if promote >= borderline {
			s.promoteThreshold = promote
			s.borderlineThreshold = borderline
		}
	}
}

// WithQueueSize bounds the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithExplainTopN caps how many factors local explanations return.
func WithExplainTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.explainTopN = n
		}
	}
}
