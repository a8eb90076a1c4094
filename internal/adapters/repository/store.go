// Package repository provides read access to employee history and
// write access to the append-only activity tables.
package repository

import (
	"context"

	"github.com/okian/prr/internal/domain/model"
)

// Store is the persistence surface the core depends on. Reads are
// synchronous and non-transactional; the core never updates or deletes.
type Store interface {
	// Aggregates returns the partial feature vector for an employee:
	// keys whose aggregate had no underlying rows are absent. asOf is
	// accepted for contract compatibility but does not bound rows.
	Aggregates(ctx context.Context, employeeID int64, asOf string) (model.FeatureVector, error)

	// Employee returns reference data for id.
	// Returns ErrNotFound when the employee is unknown.
	Employee(ctx context.Context, id int64) (model.Employee, error)

	// Catalog returns all course catalog entries in catalog order.
	Catalog(ctx context.Context) ([]model.Course, error)

	// RecordActivity appends one activity event to its table.
	// Returns ErrInvalidEvent when the payload is malformed.
	RecordActivity(ctx context.Context, e model.ActivityEvent) error

	// Close releases underlying resources.
	Close() error
}
