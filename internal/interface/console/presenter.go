package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alem-hub/student-id-registry/internal/application/errorinjection"
	"github.com/alem-hub/student-id-registry/internal/application/query"
)

// Sample sizes printed after an error test run.
const (
	reportSampleRows    = 30
	notCaughtSampleRows = 20
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Faint(true)
)

// Table renders rows as fixed-width text columns.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates an empty table.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render returns the table, or "" when there are no rows.
func (t *Table) Render() string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(titleStyle.Render(t.Title))
		sb.WriteString("\n")
	}
	writeLine(&sb, t.Headers, widths, headerStyle)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeLine(&sb, row, widths, cellStyle)
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, cells []string, widths []int, style lipgloss.Style) {
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(style.Width(widths[i]).Render(cell))
		if i < len(widths)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")
}

// StudentsTable renders the registry listing.
func StudentsTable(rows []query.StudentDTO) *Table {
	t := NewTable("Registered students", "#", "First Name", "Last Name", "Major", "Start Year", "Student ID")
	for _, r := range rows {
		t.AddRow(fmt.Sprint(r.Position), r.FirstName, r.LastName, r.Major, r.StartYear, r.StudentID)
	}
	return t
}

// ReportTable renders up to limit report rows.
func ReportTable(title string, rows []errorinjection.Row, limit int) *Table {
	t := NewTable(title, errorinjection.ReportHeader...)
	for i, r := range rows {
		if i >= limit {
			break
		}
		t.AddRow(r.Values()...)
	}
	return t
}

// SummaryText formats the detection summary line and the per-kind breakdown.
func SummaryText(s errorinjection.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error detection success rate: %.2f%% (%d/%d errors caught)\n",
		s.SuccessRate(), s.Detected, s.Total)

	t := NewTable("", "Error Type", "Tested", "Caught", "Rate")
	for _, kind := range errorinjection.MutationKinds {
		ks, ok := s.ByKind[kind]
		if !ok {
			continue
		}
		t.AddRow(string(kind), fmt.Sprint(ks.Total), fmt.Sprint(ks.Detected), fmt.Sprintf("%.2f%%", ks.Rate()))
	}
	sb.WriteString(t.Render())
	return sb.String()
}
