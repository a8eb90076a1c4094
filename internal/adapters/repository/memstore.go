package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/model"
)

// Severity weights mirror the SQL incident aggregation.
var severityWeights = map[string]float64{
	"Low":    1,
	"Medium": 2,
	"High":   4,
}

// projectRow holds the columns the aggregator reads.
type projectRow struct {
	onTime   bool
	quality  float64
	velocity float64
	impact   float64
}

// MemoryStore implements Store in memory with the same aggregation
// semantics as the Postgres store. It backs tests and local runs
// without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	employees map[int64]model.Employee
	catalog   []model.Course

	projects     map[int64][]projectRow
	feedback     map[int64][]float64
	recognitions map[int64]int
	incidents    map[int64][]string
	learning     map[int64][]bool
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithEmployees seeds employee reference data.
func WithEmployees(employees []model.Employee) MemoryOption {
	return func(s *MemoryStore) {
		for _, e := range employees {
			s.employees[e.ID] = e
		}
	}
}

// WithCatalog seeds the course catalog.
func WithCatalog(catalog []model.Course) MemoryOption {
	return func(s *MemoryStore) {
		s.catalog = append(s.catalog, catalog...)
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		employees:    make(map[int64]model.Employee),
		projects:     make(map[int64][]projectRow),
		feedback:     make(map[int64][]float64),
		recognitions: make(map[int64]int),
		incidents:    make(map[int64][]string),
		learning:     make(map[int64][]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Aggregates computes the partial feature vector over recorded events.
func (s *MemoryStore) Aggregates(_ context.Context, employeeID int64, _ string) (model.FeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.FeatureVector)

	if rows := s.projects[employeeID]; len(rows) > 0 {
		var onTime, quality, velocity, impact float64
		for _, r := range rows {
			if r.onTime {
				onTime++
			}
			quality += r.quality
			velocity += r.velocity
			impact += r.impact
		}
		n := float64(len(rows))
		out[feature.KeyOnTimeRatio] = onTime / n
		out[feature.KeyQualityMean] = quality / n
		out[feature.KeyVelocityTotal] = velocity
		out[feature.KeyImpactTotal] = impact
	}

	if ratings := s.feedback[employeeID]; len(ratings) > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r
		}
		out[feature.KeyFeedbackMean] = sum / float64(len(ratings))
	}

	if n := s.recognitions[employeeID]; n > 0 {
		out[feature.KeyRecognitions] = float64(n)
	}

	if severities := s.incidents[employeeID]; len(severities) > 0 {
		var weight float64
		for _, sev := range severities {
			weight += severityWeights[sev]
		}
		out[feature.KeyIncidentsWeight] = weight
	}

	if completions := s.learning[employeeID]; len(completions) > 0 {
		var done float64
		for _, c := range completions {
			if c {
				done++
			}
		}
		out[feature.KeyCoursesCompleted] = done
	}

	return out, nil
}

// Employee returns seeded reference data or ErrNotFound.
func (s *MemoryStore) Employee(_ context.Context, id int64) (model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return model.Employee{}, ErrNotFound
	}
	return e, nil
}

// Catalog returns catalog entries in seed order.
func (s *MemoryStore) Catalog(_ context.Context) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Course(nil), s.catalog...), nil
}

// RecordActivity appends one event to its in-memory table.
func (s *MemoryStore) RecordActivity(_ context.Context, e model.ActivityEvent) error {
	if e.EmployeeID <= 0 {
		return fmt.Errorf("%w: missing employee_id", ErrInvalidEvent)
	}
	a := attrs(e.Attrs)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch e.Kind {
	case model.KindProjectActivity:
		s.projects[e.EmployeeID] = append(s.projects[e.EmployeeID], projectRow{
			onTime:   a.boolean("on_time", false),
			quality:  a.num("quality_score", 0),
			velocity: a.num("velocity", 0),
			impact:   a.num("customer_impact", 0),
		})
	case model.KindFeedback:
		s.feedback[e.EmployeeID] = append(s.feedback[e.EmployeeID], a.num("rating", 0))
	case model.KindRecognition:
		s.recognitions[e.EmployeeID]++
	case model.KindIncident:
		severity := a.str("severity", "")
		if _, ok := severityWeights[severity]; !ok {
			return fmt.Errorf("%w: severity must be Low, Medium, or High", ErrInvalidEvent)
		}
		s.incidents[e.EmployeeID] = append(s.incidents[e.EmployeeID], severity)
	case model.KindLearning:
		s.learning[e.EmployeeID] = append(s.learning[e.EmployeeID], a.boolean("completion", false))
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
