package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

// studentColumns mirror the CSV header; the major is stored by display name.
var studentColumns = []string{"position", "first_name", "last_name", "major", "start_year", "student_id"}

// StudentRepository implements student.Storage for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Load returns all rows ordered by registration position.
// A missing students table is reported as ErrMissingSource.
func (r *StudentRepository) Load(ctx context.Context) (*student.LoadResult, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT position, first_name, last_name, major, start_year, student_id
		FROM students
		ORDER BY position
	`)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, shared.WrapError(shared.ErrMissingSource, err)
		}
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	res := &student.LoadResult{}
	line := 0
	for rows.Next() {
		line++
		var position int
		var first, last, majorName, year, id string
		if err := rows.Scan(&position, &first, &last, &majorName, &year, &id); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}

		rec, skipped := decodeStudent(line, first, last, majorName, year, id)
		if skipped != nil {
			res.Skipped = append(res.Skipped, *skipped)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := rows.Err(); err != nil {
		if IsUndefinedTable(err) {
			return nil, shared.WrapError(shared.ErrMissingSource, err)
		}
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return res, nil
}

// Save replaces every stored row in one transaction using COPY.
func (r *StudentRepository) Save(ctx context.Context, records []*student.Student) error {
	rows := encodeRows(records)

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM students"); err != nil {
			return fmt.Errorf("failed to clear students: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"students"}, studentColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy students: %w", err)
		}
		if int(n) != len(rows) {
			return fmt.Errorf("copied %d of %d students", n, len(rows))
		}
		return nil
	})
}

// decodeStudent maps one stored row to a record. Rows whose major name is not
// known are returned as skipped instead.
func decodeStudent(line int, first, last, majorName, year, id string) (*student.Student, *student.SkippedRow) {
	major, ok := student.MajorByName(majorName)
	if !ok {
		return nil, &student.SkippedRow{
			Line:   line,
			Reason: shared.WrapError(shared.ErrUnknownMajorName, fmt.Errorf("%q", majorName)),
			Values: []string{first, last, majorName, year, id},
		}
	}
	return &student.Student{
		FirstName: first,
		LastName:  last,
		Major:     major,
		MajorName: major.Name(),
		StartYear: year,
		Serial:    student.SerialFromID(major, year, id),
		StudentID: id,
	}, nil
}

// encodeRows lays records out in studentColumns order. Positions start at 1.
func encodeRows(records []*student.Student) [][]any {
	rows := make([][]any, 0, len(records))
	for i, s := range records {
		rows = append(rows, []any{i + 1, s.FirstName, s.LastName, s.MajorLabel(), s.StartYear, s.StudentID})
	}
	return rows
}
