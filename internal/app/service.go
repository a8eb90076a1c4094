// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/okian/prr/internal/adapters/mq/queue"
	"github.com/okian/prr/internal/adapters/mq/worker"
	"github.com/okian/prr/internal/adapters/repository"
	"github.com/okian/prr/internal/domain/dedupe"
	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/gaps"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/internal/domain/plan"
	"github.com/okian/prr/internal/domain/policy"
	"github.com/okian/prr/internal/domain/scoring"
	"github.com/okian/prr/pkg/logger"
	"github.com/okian/prr/pkg/metrics"
)

// ScoreResult is the outcome of one readiness scoring request.
// EmployeeName is nil when the employee lookup misses; a score is
// still produced from the all-default feature vector.
type ScoreResult struct {
	EmployeeID   int64
	EmployeeName *string
	AsOf         string
	Score        float64
	Decision     policy.Decision
	Confidence   float64
}

// PlanResult is the outcome of one plan recommendation request.
type PlanResult struct {
	EmployeeID int64
	Score      float64
	Gaps       []string
	Plan       model.Plan
}

// Factor is one entry of a local explanation.
type Factor struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// ExplainResult lists the largest-magnitude input factors for an
// employee, in the artifact's feature order tie-broken by magnitude.
type ExplainResult struct {
	EmployeeID int64
	TopFactors []Factor
}

// Service implements the API dependencies for the readiness system.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	features *feature.Builder
	artifact *scoring.Artifact
	deduper  dedupe.Deduper
	events   queue.Queue
	workers  *worker.Pool

	// Configuration
	databaseURL         string
	modelDir            string
	promoteThreshold    float64
	borderlineThreshold float64
	queueSize           int
	workerCount         int
	dedupeSize          int
	explainTopN         int

	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelDir:            "ml/artifacts",
		promoteThreshold:    0.72,
		borderlineThreshold: 0.60,
		queueSize:           100000,
		workerCount:         0, // pool picks its own default
		dedupeSize:          50000,
		explainTopN:         5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store, loads the scoring artifact, and starts the
// ingest pipeline. The artifact load is fail-fast: without it the
// serving path cannot produce scores. Loading happens here, once,
// before any request is served, so scoring needs no lazy
// initialization and no locks.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		if s.databaseURL != "" {
			store, err := repository.NewPostgresStore(ctx, s.databaseURL)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using postgres store")
		} else {
			s.store = repository.NewMemoryStore()
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	if s.artifact == nil {
		artifact, err := scoring.Load(s.modelDir)
		if err != nil {
			return fmt.Errorf("load scoring artifact: %w", err)
		}
		s.artifact = artifact
	}
	s.logger.Info(ctx, "scoring artifact loaded",
		logger.String("modelType", s.artifact.Meta().ModelType),
		logger.Int("features", len(s.artifact.FeatureOrder())),
	)

	s.features = feature.NewBuilder(s.store)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.events = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workers = worker.NewPool(s.workerCount, s.events, s.store)
	s.workers.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "readiness service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping readiness service...")

	if s.events != nil {
		_ = s.events.Close()
	}
	if s.workers != nil {
		s.workers.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(ctx, "readiness service stopped")
}

// BuildFeatures computes the feature vector for (employeeID, asOf).
func (s *Service) BuildFeatures(ctx context.Context, employeeID int64, asOf string) (model.FeatureVector, error) {
	start := time.Now()
	feats, err := s.features.Build(ctx, employeeID, asOf)
	metrics.RecordFeatureBuildLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	if equalVectors(feats, feature.Defaults()) {
		metrics.RecordAllDefaultVector()
	}
	return feats, nil
}

// ScorePromotion runs the full scoring path: features, model score,
// decision, confidence, and the (nullable) employee name lookup.
func (s *Service) ScorePromotion(ctx context.Context, employeeID int64, asOf string) (ScoreResult, error) {
	feats, err := s.BuildFeatures(ctx, employeeID, asOf)
	if err != nil {
		return ScoreResult{}, err
	}

	start := time.Now()
	score, err := s.artifact.Score(feats)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		return ScoreResult{}, err
	}
	metrics.RecordScoreComputed()

	decision := policy.Decide(score, s.promoteThreshold, s.borderlineThreshold)
	metrics.RecordDecision(string(decision))

	return ScoreResult{
		EmployeeID:   employeeID,
		EmployeeName: s.employeeName(ctx, employeeID),
		AsOf:         asOf,
		Score:        score,
		Decision:     decision,
		Confidence:   policy.Confidence(score),
	}, nil
}

// RecommendPlan scores the employee, infers gaps, and composes the
// development plan from the course catalog.
func (s *Service) RecommendPlan(ctx context.Context, employeeID int64, asOf string) (PlanResult, error) {
	feats, err := s.BuildFeatures(ctx, employeeID, asOf)
	if err != nil {
		return PlanResult{}, err
	}
	score, err := s.artifact.Score(feats)
	if err != nil {
		metrics.RecordScoringError()
		return PlanResult{}, err
	}

	orgUnit := ""
	if emp, err := s.store.Employee(ctx, employeeID); err == nil {
		orgUnit = emp.OrgUnit
	}

	inferred := gaps.Infer(feats, orgUnit)
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return PlanResult{}, fmt.Errorf("load catalog: %w", err)
	}
	composed := plan.Compose(inferred, orgUnit, catalog)
	metrics.RecordPlanComposed()

	return PlanResult{
		EmployeeID: employeeID,
		Score:      score,
		Gaps:       inferred,
		Plan:       composed,
	}, nil
}

// ExplainLocal returns the top factors of the ordered model input by
// absolute value.
func (s *Service) ExplainLocal(ctx context.Context, employeeID int64, asOf string) (ExplainResult, error) {
	feats, err := s.BuildFeatures(ctx, employeeID, asOf)
	if err != nil {
		return ExplainResult{}, err
	}
	factors := make([]Factor, 0, len(s.artifact.FeatureOrder()))
	for _, k := range s.artifact.FeatureOrder() {
		factors = append(factors, Factor{Feature: k, Value: feats.Get(k, 0)})
	}
	sortFactors(factors)
	if len(factors) > s.explainTopN {
		factors = factors[:s.explainTopN]
	}
	return ExplainResult{EmployeeID: employeeID, TopFactors: factors}, nil
}

// SeenAndRecord atomically checks and records an event id.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// EnqueueActivity submits an activity event for asynchronous
// persistence. Returns false on backpressure.
func (s *Service) EnqueueActivity(ctx context.Context, e model.ActivityEvent) bool {
	ok := s.events.Enqueue(ctx, e)
	if ok {
		metrics.RecordEventIngested()
	}
	return ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"explainTopN": s.explainTopN,
	}
	if s.started {
		stats["queueLength"] = s.events.Len(context.Background())
		stats["dedupeEntries"] = s.deduper.Size()
		stats["modelType"] = s.artifact.Meta().ModelType
		stats["featureOrder"] = s.artifact.FeatureOrder()
	}
	return stats
}

func (s *Service) employeeName(ctx context.Context, id int64) *string {
	emp, err := s.store.Employee(ctx, id)
	if err != nil {
		// Unknown employee resolves to a null name, not an error: the
		// caller still gets a computed score.
		return nil
	}
	return &emp.Name
}

func equalVectors(a, b model.FeatureVector) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// sortFactors orders by descending absolute value, stable over the
// declared feature order.
func sortFactors(factors []Factor) {
	sort.SliceStable(factors, func(i, j int) bool {
		return math.Abs(factors[i].Value) > math.Abs(factors[j].Value)
	})
}
