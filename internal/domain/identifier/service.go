package identifier

import (
	"strings"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

// SerialSource hands out issuance serials. *Generator implements it.
type SerialSource interface {
	Generate() (string, error)
}

// IssueParams holds the input for issuing a new identifier.
type IssueParams struct {
	FirstName string
	LastName  string
	Major     student.Major
	StartYear string
}

// Service composes and validates student identifiers.
type Service struct {
	serials SerialSource
}

// NewService creates a Service drawing serials from src.
func NewService(src SerialSource) *Service {
	return &Service{serials: src}
}

// Issue builds a new record with a freshly composed identifier.
// Returns ErrInvalidMajor for an unknown major and ErrInvalidStartYear when
// the year is not four digits. No serial is consumed on rejection.
func (s *Service) Issue(p IssueParams) (*student.Student, error) {
	if !p.Major.IsValid() {
		return nil, shared.ErrInvalidMajor
	}
	year := strings.TrimSpace(p.StartYear)
	if len(year) != 4 || !IsDigits(year) {
		return nil, shared.ErrInvalidStartYear
	}

	serial, err := s.serials.Generate()
	if err != nil {
		return nil, err
	}

	return &student.Student{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Major:     p.Major,
		MajorName: p.Major.Name(),
		StartYear: year,
		Serial:    serial,
		StudentID: Compose(p.Major, year, serial),
	}, nil
}

// Validate reports whether candidate is a checksum-consistent identifier.
// Any malformed input is just invalid.
func (s *Service) Validate(candidate string) bool {
	return Validate(candidate)
}

// Compose joins the identifier segments and appends the check digit.
func Compose(major student.Major, startYear, serial string) string {
	return Append(major.Code() + startYear + serial)
}
