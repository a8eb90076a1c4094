// Package model contains domain models passed between layers.
package model

// Employee is reference data for a scoring request. Owned by the
// persistence layer; the core only reads it.
type Employee struct {
	ID                int64
	Name              string
	OrgUnit           string
	CurrentRank       string
	LastPromotionDate string
}

// FeatureVector maps feature keys to numeric values for one
// (employee, as_of) pair. It is recomputed per request and never cached.
type FeatureVector map[string]float64

// Clone returns a copy so callers can mutate without aliasing.
func (f FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or def when the key is absent.
func (f FeatureVector) Get(key string, def float64) float64 {
	if v, ok := f[key]; ok {
		return v
	}
	return def
}

// RecordKind identifies the append-only activity tables.
type RecordKind string

// Activity record kinds accepted by the ingest path.
const (
	KindProjectActivity RecordKind = "project_activity"
	KindFeedback        RecordKind = "feedback360"
	KindRecognition     RecordKind = "recognition"
	KindIncident        RecordKind = "incident"
	KindLearning        RecordKind = "learning"
)

// Valid reports whether k names a known activity table.
func (k RecordKind) Valid() bool {
	switch k {
	case KindProjectActivity, KindFeedback, KindRecognition, KindIncident, KindLearning:
		return true
	}
	return false
}

// ActivityEvent is a time-stamped event tied to one employee, flowing
// through the ingest queue. Attrs carries the kind-specific columns as
// decoded JSON values; the repository validates them on write.
type ActivityEvent struct {
	EventID    string
	EmployeeID int64
	Kind       RecordKind
	Date       string
	Attrs      map[string]any
}

// Course is a development catalog entry, read-only to the core.
type Course struct {
	CourseID      string
	Title         string
	Provider      string
	DurationHours int
	SkillsJSON    string
}

// Milestone is a fixed plan checkpoint.
type Milestone struct {
	Day  int    `json:"day"`
	Goal string `json:"goal"`
}

// PlanItem is either a recommended course or the mentor suggestion.
type PlanItem struct {
	Type          string `json:"type"`
	CourseID      string `json:"course_id,omitempty"`
	Title         string `json:"title,omitempty"`
	Provider      string `json:"provider,omitempty"`
	DurationHours int    `json:"duration_h,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Plan is a composed development plan. Created fresh per request.
type Plan struct {
	Milestones            []Milestone `json:"milestones"`
	Items                 []PlanItem  `json:"items"`
	ExpectedReadinessGain float64     `json:"expected_readiness_gain"`
}
