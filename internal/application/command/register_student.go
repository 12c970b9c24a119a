// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"strings"

	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Issues a checksum-protected ID and appends the record to the registry.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data for a new registration.
type RegisterStudentCommand struct {
	FirstName string
	LastName  string
	Major     student.Major
	StartYear string
}

// Validate checks the fields the identifier service does not.
func (c RegisterStudentCommand) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return errors.New("register_student: first name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		return errors.New("register_student: last name is required")
	}
	return nil
}

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	ids      *identifier.Service
	registry *student.Registry
	log      *logger.Logger
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(ids *identifier.Service, registry *student.Registry, log *logger.Logger) *RegisterStudentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterStudentHandler{
		ids:      ids,
		registry: registry,
		log:      log.With(logger.Component("register_student")),
	}
}

// Handle issues the identifier and stores the record in memory.
// Rejections (ErrInvalidMajor, ErrInvalidStartYear, missing names) leave the
// registry untouched.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rec, err := h.ids.Issue(identifier.IssueParams{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Major:     cmd.Major,
		StartYear: cmd.StartYear,
	})
	if err != nil {
		h.log.Warn("registration rejected",
			logger.MajorCode(int(cmd.Major)),
			logger.String("start_year", cmd.StartYear),
			logger.Err(err),
		)
		return nil, err
	}

	h.registry.Add(rec)
	h.log.Info("student registered",
		logger.StudentID(rec.StudentID),
		logger.Serial(rec.Serial),
		logger.MajorCode(int(rec.Major)),
	)
	return rec, nil
}
