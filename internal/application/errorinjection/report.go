package errorinjection

import (
	"strings"

	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/csvfile"
)

// ReportHeader is the column set of both report files.
var ReportHeader = []string{"Student Name", "Original ID", "Tested ID", "Error Type", "Is Valid", "Note"}

// NotCaughtPath derives the secondary report path: results.csv becomes
// results_not_caught.csv. A path without the .csv suffix gets the suffix appended.
func NotCaughtPath(path string) string {
	base := strings.TrimSuffix(path, ".csv")
	return base + "_not_caught.csv"
}

// Values renders the row in ReportHeader order.
func (r Row) Values() []string {
	valid := "False"
	if r.Valid {
		valid = "True"
	}
	return []string{r.StudentName, r.OriginalID, r.TestedID, string(r.Kind), valid, r.Note}
}

// WriteReport writes every row to path and, when some mutations went
// undetected, writes those rows to NotCaughtPath(path). It returns the
// not-caught path, or "" when that file was not written.
func WriteReport(path string, report *Report) (string, error) {
	if err := csvfile.WriteRows(path, ReportHeader, toValues(report.Rows)); err != nil {
		return "", err
	}

	missed := report.NotCaught()
	if len(missed) == 0 {
		return "", nil
	}
	nc := NotCaughtPath(path)
	if err := csvfile.WriteRows(nc, ReportHeader, toValues(missed)); err != nil {
		return "", err
	}
	return nc, nil
}

func toValues(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Values())
	}
	return out
}
