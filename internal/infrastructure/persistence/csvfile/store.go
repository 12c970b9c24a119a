// Package csvfile persists student records as a flat comma-separated file.
// The major is stored by display name; loading maps it back to the code.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

// Header is the fixed column set of the records file.
var Header = []string{"First Name", "Last Name", "Major", "Start Year", "Student ID"}

const (
	colFirst = iota
	colLast
	colMajor
	colYear
	colID
)

// Store implements student.Storage on a single file.
type Store struct {
	path string
}

// NewStore creates a Store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every row of the file. Rows with an unknown major name or the
// wrong column count are skipped and reported, the rest still load.
func (s *Store) Load(ctx context.Context) (*student.LoadResult, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.WrapError(shared.ErrMissingSource, err)
	}
	if err != nil {
		return nil, fmt.Errorf("csvfile: open %s: %w", s.path, err)
	}
	defer f.Close()

	return decode(ctx, f)
}

func decode(ctx context.Context, r io.Reader) (*student.LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	res := &student.LoadResult{}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csvfile: read header: %w", err)
	}
	cols := columnIndex(header)

	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvfile: read row %d: %w", line, err)
		}

		rec, reason := parseRow(row, cols)
		if reason != nil {
			res.Skipped = append(res.Skipped, student.SkippedRow{Line: line, Reason: reason, Values: row})
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

// columnIndex maps the fixed columns to their position in header so files
// with reordered columns still load. Missing names keep the default position.
func columnIndex(header []string) [5]int {
	idx := [5]int{colFirst, colLast, colMajor, colYear, colID}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for c, want := range Header {
			if strings.EqualFold(name, want) {
				idx[c] = i
			}
		}
	}
	return idx
}

func parseRow(row []string, cols [5]int) (*student.Student, error) {
	field := func(c int) (string, bool) {
		if cols[c] >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[cols[c]]), true
	}

	values := make([]string, len(Header))
	for c := range Header {
		v, ok := field(c)
		if !ok {
			return nil, fmt.Errorf("%w: expected %d columns, got %d", shared.ErrInvalidFormat, len(Header), len(row))
		}
		values[c] = v
	}

	major, ok := student.MajorByName(values[colMajor])
	if !ok {
		return nil, shared.WrapError(shared.ErrUnknownMajorName, fmt.Errorf("%q", values[colMajor]))
	}

	return &student.Student{
		FirstName: values[colFirst],
		LastName:  values[colLast],
		Major:     major,
		MajorName: major.Name(),
		StartYear: values[colYear],
		Serial:    student.SerialFromID(major, values[colYear], values[colID]),
		StudentID: values[colID],
	}, nil
}

// Save truncates the file and writes the header followed by one row per record.
// A failure midway can leave a partial file.
func (s *Store) Save(ctx context.Context, records []*student.Student) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.FirstName, r.LastName, r.MajorLabel(), r.StartYear, r.StudentID})
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteRows(s.path, Header, rows)
}

// WriteRows writes a header and rows to path, replacing any existing file.
func WriteRows(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvfile: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: write rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("csvfile: close %s: %w", path, err)
	}
	return nil
}
