package errorinjection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// DefaultTestsPerStudent is the number of mutations generated per identifier.
const DefaultTestsPerStudent = 20

// NoteNonDigit marks tested IDs that contain a non-digit character.
const NoteNonDigit = "non-digit present"

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config configures a Harness.
type Config struct {
	// TestsPerStudent is the number of mutated variants per subject.
	// Zero yields only the original rows; negative values are rejected.
	TestsPerStudent int

	// Rand is the source for kind selection and mutation positions.
	// Nil uses the process-wide generator.
	Rand identifier.RandSource

	// Validate checks a candidate identifier. Nil uses identifier.Validate.
	Validate func(string) bool

	// NewRunID names each run. Nil uses a random UUID.
	NewRunID func() string
}

// DefaultConfig returns a Config with DefaultTestsPerStudent mutations.
func DefaultConfig() Config {
	return Config{TestsPerStudent: DefaultTestsPerStudent}
}

// Subject is one identifier under test.
type Subject struct {
	Name string
	ID   string
}

// SubjectsFromRecords turns registry records into harness subjects.
func SubjectsFromRecords(records []*student.Student) []Subject {
	out := make([]Subject, 0, len(records))
	for _, r := range records {
		out = append(out, Subject{Name: r.FullName(), ID: r.StudentID})
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULTS
// ══════════════════════════════════════════════════════════════════════════════

// Row is one validated candidate.
type Row struct {
	StudentName string
	OriginalID  string
	TestedID    string
	Kind        Kind
	Valid       bool
	Note        string
}

// Detected reports whether the checksum rejected a mutated ID.
func (r Row) Detected() bool {
	return r.Kind != KindOriginal && !r.Valid
}

// KindStats counts mutations of one kind.
type KindStats struct {
	Total    int
	Detected int
}

// Rate returns the detection percentage, 0 when nothing was tested.
func (s KindStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Detected) / float64(s.Total) * 100
}

// Summary aggregates mutation rows. Original rows are not counted.
type Summary struct {
	KindStats
	ByKind map[Kind]KindStats
}

// SuccessRate returns detected/total as a percentage.
func (s Summary) SuccessRate() float64 {
	return s.Rate()
}

// Report is the outcome of one harness run.
type Report struct {
	RunID    string
	Rows     []Row
	Summary  Summary
	Duration time.Duration
}

// NotCaught returns the mutation rows that still validated.
func (r *Report) NotCaught() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Kind != KindOriginal && row.Valid {
			out = append(out, row)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// HARNESS
// ══════════════════════════════════════════════════════════════════════════════

// Harness generates and validates mutated identifiers.
type Harness struct {
	testsPerStudent int
	rnd             identifier.RandSource
	validate        func(string) bool
	newRunID        func() string
	log             *logger.Logger
}

// New creates a Harness.
func New(cfg Config, log *logger.Logger) (*Harness, error) {
	if cfg.TestsPerStudent < 0 {
		return nil, fmt.Errorf("errorinjection: tests per student must not be negative, got %d", cfg.TestsPerStudent)
	}
	if cfg.Rand == nil {
		cfg.Rand = defaultRand{}
	}
	if cfg.Validate == nil {
		cfg.Validate = identifier.Validate
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = uuid.NewString
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Harness{
		testsPerStudent: cfg.TestsPerStudent,
		rnd:             cfg.Rand,
		validate:        cfg.Validate,
		newRunID:        cfg.NewRunID,
		log:             log.With(logger.Component("errorinjection")),
	}, nil
}

// TestsPerStudent returns the configured mutation count.
func (h *Harness) TestsPerStudent() int {
	return h.testsPerStudent
}

// Run produces one original row plus TestsPerStudent mutation rows per subject.
// It stops between subjects when ctx is cancelled.
func (h *Harness) Run(ctx context.Context, subjects []Subject) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID: h.newRunID(),
		Rows:  make([]Row, 0, len(subjects)*(h.testsPerStudent+1)),
		Summary: Summary{
			ByKind: make(map[Kind]KindStats, len(MutationKinds)),
		},
	}
	log := h.log.With(logger.RunID(report.RunID))
	log.Info("error injection started",
		logger.Int("subjects", len(subjects)),
		logger.Int("tests_per_student", h.testsPerStudent),
	)

	for _, sub := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report.Rows = append(report.Rows, Row{
			StudentName: sub.Name,
			OriginalID:  sub.ID,
			TestedID:    sub.ID,
			Kind:        KindOriginal,
			Valid:       h.validate(sub.ID),
			Note:        string(KindOriginal),
		})

		for i := 0; i < h.testsPerStudent; i++ {
			kind := MutationKinds[h.rnd.IntN(len(MutationKinds))]
			tested := mutators[kind](sub.ID, h.rnd)
			row := Row{
				StudentName: sub.Name,
				OriginalID:  sub.ID,
				TestedID:    tested,
				Kind:        kind,
				Valid:       h.validate(tested),
			}
			if !identifier.IsDigits(tested) {
				row.Note = NoteNonDigit
			}
			report.Rows = append(report.Rows, row)
			report.Summary.add(row)
		}
	}

	report.Duration = time.Since(start)
	log.Info("error injection finished",
		logger.Int("total", report.Summary.Total),
		logger.Int("detected", report.Summary.Detected),
		logger.Float64("success_rate", report.Summary.SuccessRate()),
		logger.Latency(report.Duration),
	)
	return report, nil
}

func (s *Summary) add(row Row) {
	ks := s.ByKind[row.Kind]
	ks.Total++
	s.Total++
	if row.Detected() {
		ks.Detected++
		s.Detected++
	}
	s.ByKind[row.Kind] = ks
}
