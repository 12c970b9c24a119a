package student

import (
	"context"
	"time"
)

// Storage persists the full ordered record list. Implementations live in
// infrastructure/persistence (CSV file, PostgreSQL, SQLite).
type Storage interface {
	// Load returns every stored record in registration order.
	// Returns ErrMissingSource when the source does not exist yet.
	Load(ctx context.Context) (*LoadResult, error)

	// Save replaces the stored records with the given ones, keeping their order.
	Save(ctx context.Context, records []*Student) error
}

// LoadResult is what a Storage returns from Load.
type LoadResult struct {
	Records []*Student
	Skipped []SkippedRow
}

// SkippedRow describes a persisted row that could not become a record.
type SkippedRow struct {
	// Line is the 1-based row number in the source, header excluded.
	Line   int
	Reason error
	Values []string
}

// Cache fronts identifier lookups (login) with a fast store.
type Cache interface {
	Get(ctx context.Context, studentID string) (*Student, error)
	Set(ctx context.Context, s *Student, ttl time.Duration) error
	Invalidate(ctx context.Context, studentID string) error
}
