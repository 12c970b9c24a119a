// Package sqlite implements an embedded single-file storage backend for student
// records on top of the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
    position   INTEGER PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    major      TEXT NOT NULL,
    start_year TEXT NOT NULL,
    student_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_students_student_id ON students (student_id);
`

// StudentRepository implements student.Storage on a SQLite database file.
type StudentRepository struct {
	db *sql.DB
}

// Open opens (or lazily creates) the database at path. The schema is created
// on the first Save, so Load on a fresh file reports a missing source.
func Open(path string) (*StudentRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}

	return &StudentRepository{db: db}, nil
}

// Close closes the database.
func (r *StudentRepository) Close() error {
	return r.db.Close()
}

// Load returns all rows ordered by registration position.
func (r *StudentRepository) Load(ctx context.Context) (*student.LoadResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT first_name, last_name, major, start_year, student_id
		FROM students
		ORDER BY position
	`)
	if err != nil {
		if isNoSuchTable(err) {
			return nil, shared.WrapError(shared.ErrMissingSource, err)
		}
		return nil, fmt.Errorf("sqlite: query students: %w", err)
	}
	defer rows.Close()

	res := &student.LoadResult{}
	for line := 1; rows.Next(); line++ {
		var first, last, majorName, year, id string
		if err := rows.Scan(&first, &last, &majorName, &year, &id); err != nil {
			return nil, fmt.Errorf("sqlite: scan student: %w", err)
		}

		major, ok := student.MajorByName(majorName)
		if !ok {
			res.Skipped = append(res.Skipped, student.SkippedRow{
				Line:   line,
				Reason: shared.WrapError(shared.ErrUnknownMajorName, fmt.Errorf("%q", majorName)),
				Values: []string{first, last, majorName, year, id},
			})
			continue
		}

		res.Records = append(res.Records, &student.Student{
			FirstName: first,
			LastName:  last,
			Major:     major,
			MajorName: major.Name(),
			StartYear: year,
			Serial:    student.SerialFromID(major, year, id),
			StudentID: id,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate students: %w", err)
	}
	return res, nil
}

// Save replaces every stored row in one transaction.
func (r *StudentRepository) Save(ctx context.Context, records []*student.Student) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: create schema: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("sqlite: clear students: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO students (position, first_name, last_name, major, start_year, student_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range records {
		if _, err = stmt.ExecContext(ctx, i+1, s.FirstName, s.LastName, s.MajorLabel(), s.StartYear, s.StudentID); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", s.StudentID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func isNoSuchTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
