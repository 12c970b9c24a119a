package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// Registry is the in-memory ordered record list held for the process lifetime.
// It is not safe for concurrent use.
type Registry struct {
	records []*Student
	byID    map[string]*Student
	log     *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		byID: make(map[string]*Student),
		log:  log.With(logger.Component("registry")),
	}
}

// Add appends a record. Insertion order is registration order.
func (r *Registry) Add(s *Student) {
	r.records = append(r.records, s)
	if _, dup := r.byID[s.StudentID]; !dup {
		r.byID[s.StudentID] = s
	}
}

// List returns the records in registration order. The slice is a copy.
func (r *Registry) List() []*Student {
	out := make([]*Student, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records)
}

// FindByID returns the first record registered with exactly this identifier.
func (r *Registry) FindByID(id string) (*Student, error) {
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return nil, shared.ErrStudentNotFound
}

// IDs returns every identifier in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.records))
	for _, s := range r.records {
		ids = append(ids, s.StudentID)
	}
	return ids
}

// Load replaces the registry content with what the storage holds.
// A missing source is not an error: the registry stays empty and a warning is logged.
// Skipped rows are logged and returned so the caller can report them.
func (r *Registry) Load(ctx context.Context, storage Storage) ([]SkippedRow, error) {
	res, err := storage.Load(ctx)
	if errors.Is(err, shared.ErrMissingSource) {
		r.log.Warn("no stored records, starting empty", logger.Err(err))
		r.reset(nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	for _, row := range res.Skipped {
		r.log.Warn("skipped stored row",
			logger.Int("line", row.Line),
			logger.Err(row.Reason),
		)
	}

	r.reset(res.Records)
	r.log.Info("records loaded",
		logger.Int("count", len(res.Records)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return res.Skipped, nil
}

// Save writes every record to the storage in registration order.
func (r *Registry) Save(ctx context.Context, storage Storage) error {
	if err := storage.Save(ctx, r.List()); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	r.log.Info("records saved", logger.Int("count", len(r.records)))
	return nil
}

func (r *Registry) reset(records []*Student) {
	r.records = nil
	r.byID = make(map[string]*Student, len(records))
	for _, s := range records {
		r.Add(s)
	}
}
