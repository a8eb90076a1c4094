package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/model"
)

const projectAggregates = `-- name: ProjectAggregates :one
SELECT AVG(CASE WHEN on_time THEN 1.0 ELSE 0.0 END) AS on_time_ratio,
       AVG(quality_score) AS quality_mean,
       SUM(velocity) AS velocity_total,
       SUM(customer_impact) AS impact_total
FROM project_activity WHERE employee_id = $1
`

const feedbackMean = `-- name: FeedbackMean :one
SELECT AVG(rating) AS feedback_mean FROM feedback360 WHERE employee_id = $1
`

const recognitionCount = `-- name: RecognitionCount :one
SELECT COUNT(*) AS recognitions FROM recognition WHERE employee_id = $1
`

const incidentWeight = `-- name: IncidentWeight :one
SELECT SUM(CASE severity WHEN 'Low' THEN 1 WHEN 'Medium' THEN 2 WHEN 'High' THEN 4 END) AS incidents_weight
FROM incidents WHERE employee_id = $1
`

const coursesCompleted = `-- name: CoursesCompleted :one
SELECT SUM(CASE WHEN completion THEN 1 ELSE 0 END) AS courses_completed
FROM learning_history WHERE employee_id = $1
`

const getEmployee = `-- name: GetEmployee :one
SELECT id, name, org_unit, current_rank, last_promotion_date FROM employee WHERE id = $1
`

const listCatalog = `-- name: ListCatalog :many
SELECT course_id, title, provider, duration_h, skills_json FROM catalog ORDER BY id
`

const insertProjectActivity = `-- name: InsertProjectActivity :exec
INSERT INTO project_activity (employee_id, date, project_id, role, hours, velocity, quality_score, on_time, customer_impact)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const insertFeedback = `-- name: InsertFeedback :exec
INSERT INTO feedback360 (employee_id, rater_id, date, dimension, rating, relationship, comment_redacted)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const insertRecognition = `-- name: InsertRecognition :exec
INSERT INTO recognition (employee_id, date, badge_type, nominator_id)
VALUES ($1, $2, $3, $4)
`

const insertIncident = `-- name: InsertIncident :exec
INSERT INTO incidents (employee_id, date, type, severity)
VALUES ($1, $2, $3, $4)
`

const insertLearning = `-- name: InsertLearning :exec
INSERT INTO learning_history (employee_id, course_id, start_dt, end_dt, completion, assessment_score, hours)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// PostgresStore implements Store over database/sql with the pq driver.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool for databaseURL and pings it.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Aggregates runs the per-table aggregate queries and assembles the
// partial feature vector. NULL aggregates (no rows) leave the key
// absent; defaults are the feature builder's concern.
func (s *PostgresStore) Aggregates(ctx context.Context, employeeID int64, _ string) (model.FeatureVector, error) {
	out := make(model.FeatureVector)

	var onTime, quality, velocity, impact sql.NullFloat64
	row := s.db.QueryRowContext(ctx, projectAggregates, employeeID)
	if err := row.Scan(&onTime, &quality, &velocity, &impact); err != nil {
		return nil, fmt.Errorf("project aggregates: %w", err)
	}
	putNullable(out, feature.KeyOnTimeRatio, onTime)
	putNullable(out, feature.KeyQualityMean, quality)
	putNullable(out, feature.KeyVelocityTotal, velocity)
	putNullable(out, feature.KeyImpactTotal, impact)

	var fb sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, feedbackMean, employeeID).Scan(&fb); err != nil {
		return nil, fmt.Errorf("feedback mean: %w", err)
	}
	putNullable(out, feature.KeyFeedbackMean, fb)

	var recognitions int64
	if err := s.db.QueryRowContext(ctx, recognitionCount, employeeID).Scan(&recognitions); err != nil {
		return nil, fmt.Errorf("recognition count: %w", err)
	}
	if recognitions > 0 {
		out[feature.KeyRecognitions] = float64(recognitions)
	}

	var incidents sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, incidentWeight, employeeID).Scan(&incidents); err != nil {
		return nil, fmt.Errorf("incident weight: %w", err)
	}
	putNullable(out, feature.KeyIncidentsWeight, incidents)

	var courses sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, coursesCompleted, employeeID).Scan(&courses); err != nil {
		return nil, fmt.Errorf("courses completed: %w", err)
	}
	putNullable(out, feature.KeyCoursesCompleted, courses)

	return out, nil
}

// Employee fetches one employee row by id.
func (s *PostgresStore) Employee(ctx context.Context, id int64) (model.Employee, error) {
	var e model.Employee
	row := s.db.QueryRowContext(ctx, getEmployee, id)
	err := row.Scan(&e.ID, &e.Name, &e.OrgUnit, &e.CurrentRank, &e.LastPromotionDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// Catalog lists the course catalog.
func (s *PostgresStore) Catalog(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, listCatalog)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var items []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.CourseID, &c.Title, &c.Provider, &c.DurationHours, &c.SkillsJSON); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return items, nil
}

// RecordActivity appends one event to the table named by its kind.
func (s *PostgresStore) RecordActivity(ctx context.Context, e model.ActivityEvent) error {
	if e.EmployeeID <= 0 {
		return fmt.Errorf("%w: missing employee_id", ErrInvalidEvent)
	}
	a := attrs(e.Attrs)
	var err error
	switch e.Kind {
	case model.KindProjectActivity:
		_, err = s.db.ExecContext(ctx, insertProjectActivity,
			e.EmployeeID, e.Date,
			a.str("project_id", ""), a.str("role", "IC"), a.num("hours", 0),
			int64(a.num("velocity", 0)), a.num("quality_score", 0),
			a.boolean("on_time", false), int64(a.num("customer_impact", 0)))
	case model.KindFeedback:
		_, err = s.db.ExecContext(ctx, insertFeedback,
			e.EmployeeID, int64(a.num("rater_id", 0)), e.Date,
			a.str("dimension", "overall"), int64(a.num("rating", 0)),
			a.str("relationship", "peer"), a.str("comment_redacted", ""))
	case model.KindRecognition:
		_, err = s.db.ExecContext(ctx, insertRecognition,
			e.EmployeeID, e.Date, a.str("badge_type", "kudos"), int64(a.num("nominator_id", 0)))
	case model.KindIncident:
		severity := a.str("severity", "")
		if severity != "Low" && severity != "Medium" && severity != "High" {
			return fmt.Errorf("%w: severity must be Low, Medium, or High", ErrInvalidEvent)
		}
		_, err = s.db.ExecContext(ctx, insertIncident,
			e.EmployeeID, e.Date, a.str("type", "process"), severity)
	case model.KindLearning:
		_, err = s.db.ExecContext(ctx, insertLearning,
			e.EmployeeID, a.str("course_id", ""), e.Date, a.str("end_dt", e.Date),
			a.boolean("completion", false), int64(a.num("assessment_score", 0)),
			int64(a.num("hours", 0)))
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", e.Kind, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func putNullable(out model.FeatureVector, key string, v sql.NullFloat64) {
	if v.Valid {
		out[key] = v.Float64
	}
}

// attrs wraps the decoded JSON attribute map with typed accessors.
type attrs map[string]any

func (a attrs) str(key, def string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return def
}

func (a attrs) num(key string, def float64) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (a attrs) boolean(key string, def bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return def
}
