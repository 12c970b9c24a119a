// Package console implements the interactive line-oriented menu.
// Every failure is printed and the loop continues; only EOF or the exit
// option ends it.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alem-hub/student-id-registry/internal/application/command"
	"github.com/alem-hub/student-id-registry/internal/application/errorinjection"
	"github.com/alem-hub/student-id-registry/internal/application/query"
	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// Deps are the handlers the menu drives.
type Deps struct {
	Registry   *student.Registry
	Register   *command.RegisterStudentHandler
	Save       *command.SaveRecordsHandler
	List       *query.ListStudentsHandler
	Login      *query.LoginHandler
	Harness    *errorinjection.Harness
	ReportPath string
	Logger     *logger.Logger
}

// Menu reads choices from in and writes prompts and results to out.
type Menu struct {
	in   *bufio.Scanner
	out  io.Writer
	deps Deps
	log  *logger.Logger
}

// NewMenu creates a Menu.
func NewMenu(in io.Reader, out io.Writer, deps Deps) *Menu {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Menu{
		in:   bufio.NewScanner(in),
		out:  out,
		deps: deps,
		log:  log.With(logger.Component("console")),
	}
}

var errEOF = errors.New("console: end of input")

// Run loops until the user exits or input ends. It returns nil in both cases.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		choice, err := m.prompt("Choose an option (1-6): ")
		if err != nil {
			m.println("\nExiting. Goodbye!")
			return nil
		}

		switch choice {
		case "1":
			err = m.addStudent(ctx)
		case "2":
			m.listStudents()
		case "3":
			m.saveRecords(ctx)
		case "4":
			err = m.login(ctx)
		case "5":
			m.runErrorTest(ctx)
		case "6":
			m.println("Exiting. Goodbye!")
			return nil
		default:
			m.println("Invalid option. Try again.")
		}

		if errors.Is(err, errEOF) {
			m.println("\nExiting. Goodbye!")
			return nil
		}
	}
}

func (m *Menu) printMenu() {
	m.println("")
	m.println("Student ID System")
	m.println("1. Add new student")
	m.println("2. List all students")
	m.println("3. Save records")
	m.println("4. Login")
	m.println("5. Run error detection test")
	m.println("6. Exit")
}

func (m *Menu) addStudent(ctx context.Context) error {
	first, err := m.prompt("First name: ")
	if err != nil {
		return err
	}
	last, err := m.prompt("Last name: ")
	if err != nil {
		return err
	}

	m.println("Majors:")
	for _, mj := range student.Majors() {
		m.printf("%d: %s\n", int(mj), mj.Name())
	}
	rawMajor, err := m.prompt("Enter major code (1-4): ")
	if err != nil {
		return err
	}
	code, convErr := strconv.Atoi(rawMajor)
	if convErr != nil {
		m.println("Invalid major code: enter a number.")
		return nil
	}
	year, err := m.prompt("Start year (e.g., 2025): ")
	if err != nil {
		return err
	}

	rec, err := m.deps.Register.Handle(ctx, command.RegisterStudentCommand{
		FirstName: first,
		LastName:  last,
		Major:     student.Major(code),
		StartYear: year,
	})
	switch {
	case errors.Is(err, shared.ErrInvalidMajor):
		m.println("Invalid major code. Student not added.")
	case errors.Is(err, shared.ErrInvalidStartYear):
		m.println("Start year must be 4 digits. Student not added.")
	case errors.Is(err, shared.ErrSerialSpaceExhausted):
		m.println("No serial numbers left for today. Student not added.")
	case err != nil:
		m.printf("Student not added: %v\n", err)
	default:
		m.printf("Student added: %s %s (%s) with ID %s\n", rec.FirstName, rec.LastName, rec.MajorName, rec.StudentID)
	}
	return nil
}

func (m *Menu) listStudents() {
	rows := m.deps.List.Handle()
	if len(rows) == 0 {
		m.println("No students registered.")
		return
	}
	m.print(StudentsTable(rows).Render())
}

func (m *Menu) saveRecords(ctx context.Context) {
	n, err := m.deps.Save.Handle(ctx)
	if err != nil {
		m.printf("Save failed: %v\n", err)
		return
	}
	m.printf("Saved %d records.\n", n)
}

func (m *Menu) login(ctx context.Context) error {
	id, err := m.prompt("Enter your Student ID to login: ")
	if err != nil {
		return err
	}

	res, err := m.deps.Login.Handle(ctx, query.LoginQuery{StudentID: id})
	switch {
	case errors.Is(err, shared.ErrMalformedIdentifier):
		m.println("Invalid input: only numeric IDs are allowed.")
	case errors.Is(err, query.ErrChecksumMismatch):
		m.println("Invalid Student ID: check digit does not match.")
	case errors.Is(err, shared.ErrStudentNotFound):
		m.println("Student ID not found in the system.")
	case err != nil:
		m.printf("Login failed: %v\n", err)
	default:
		m.printf("Welcome, %s!\n", res.Student.FullName())
	}
	return nil
}

func (m *Menu) runErrorTest(ctx context.Context) {
	subjects := errorinjection.SubjectsFromRecords(m.deps.Registry.List())
	if len(subjects) == 0 {
		m.println("No students to test. Add or load some first.")
		return
	}

	report, err := m.deps.Harness.Run(ctx, subjects)
	if err != nil {
		m.printf("Error test failed: %v\n", err)
		return
	}
	m.print(SummaryText(report.Summary))

	if m.deps.ReportPath != "" {
		nc, err := errorinjection.WriteReport(m.deps.ReportPath, report)
		if err != nil {
			m.printf("Writing report failed: %v\n", err)
		} else {
			m.printf("Results saved to %s\n", m.deps.ReportPath)
			if nc != "" {
				m.printf("%d invalid IDs were NOT detected. See %s for details.\n", len(report.NotCaught()), nc)
			}
		}
	}

	m.print(ReportTable(fmt.Sprintf("Sample results (first %d rows)", reportSampleRows), report.Rows, reportSampleRows).Render())
	if missed := report.NotCaught(); len(missed) > 0 {
		m.print(ReportTable("Sample of NOT detected invalid IDs", missed, notCaughtSampleRows).Render())
	} else {
		m.println("All invalid IDs were successfully detected!")
	}
}

func (m *Menu) prompt(label string) (string, error) {
	m.print(label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			m.log.Warn("input read failed", logger.Err(err))
		}
		return "", errEOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) print(s string)                    { fmt.Fprint(m.out, s) }
func (m *Menu) println(s string)                  { fmt.Fprintln(m.out, s) }
func (m *Menu) printf(format string, args ...any) { fmt.Fprintf(m.out, format, args...) }
