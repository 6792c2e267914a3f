package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the fixed first line of the sweep table.
const Header = "h acc_topological sdev_topological acc_original sdev_original"

// Cell is one evaluator invocation: a sweep value in one feature mode.
type Cell struct {
	Mode      Mode
	Metric    Metric
	Found     bool   // a metric line was present in the output
	ExitCode  int    // evaluator exit status
	RunID     string // runner invocation ID
	Output    string // captured combined output (capped by the runner)
	Truncated bool
	Err       string // set when the evaluator could not be started
}

// Failed reports whether strict mode should flag the cell: the
// evaluator did not start, printed no metric line, or printed a short
// one. A nonzero exit alone does not fail the cell when the metric is
// intact; the evaluator's own exit discipline is not this driver's
// contract.
func (c Cell) Failed() bool {
	if c.Err != "" || !c.Found {
		return true
	}
	return c.Metric.Short()
}

// Detail explains a failed cell in one line.
func (c Cell) Detail() string {
	switch {
	case c.Err != "":
		return fmt.Sprintf("%s: %s", c.Mode, c.Err)
	case !c.Found && c.ExitCode != 0:
		return fmt.Sprintf("%s: no metric line (evaluator exited %d)", c.Mode, c.ExitCode)
	case !c.Found:
		return fmt.Sprintf("%s: no metric line in evaluator output", c.Mode)
	case c.Metric.Short():
		return fmt.Sprintf("%s: metric line has too few fields", c.Mode)
	default:
		return ""
	}
}

// Text renders the cell the way the original pipeline printed it: the
// extracted fields joined by a space, absent fields dropped, and an
// empty string when no metric line was found.
func (c Cell) Text() string {
	if !c.Found {
		return ""
	}
	fields := make([]string, 0, 2)
	if c.Metric.Accuracy != "" {
		fields = append(fields, c.Metric.Accuracy)
	}
	if c.Metric.Deviation != "" {
		fields = append(fields, c.Metric.Deviation)
	}
	return strings.Join(fields, " ")
}

// Row is one line of the sweep table: a sweep value and its cell per
// feature mode, in column order.
type Row struct {
	H     int
	Cells [2]Cell
}

// Failed reports whether any cell in the row failed.
func (r Row) Failed() bool {
	return r.Cells[0].Failed() || r.Cells[1].Failed()
}

// Text renders the row's data line. In the default (lenient) rendering
// a failed cell degrades to an empty field, shortening the row exactly
// as the original pipeline did. strict swaps failed rows for an
// explicit error marker instead.
func (r Row) Text(strict bool) string {
	if strict && r.Failed() {
		return fmt.Sprintf("%d ERROR %s", r.H, r.failDetail())
	}
	return strings.Join([]string{strconv.Itoa(r.H), r.Cells[0].Text(), r.Cells[1].Text()}, " ")
}

func (r Row) failDetail() string {
	for _, c := range r.Cells {
		if c.Failed() {
			return c.Detail()
		}
	}
	return ""
}

// Result holds a completed sweep.
type Result struct {
	RunID     string
	Evaluator string
	Graphs    string // the glob as configured
	Labels    string
	Span      Span
	Strict    bool
	Rows      []Row // ascending h order
	Warnings  []string
}

// Failed reports whether any row failed.
func (r *Result) Failed() bool {
	for _, row := range r.Rows {
		if row.Failed() {
			return true
		}
	}
	return false
}

// Table renders the plain-text table: the header, then one data line
// per sweep value in ascending order. The rendering carries no run
// IDs or timestamps, so identical inputs produce identical bytes.
func (r *Result) Table() string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, row := range r.Rows {
		b.WriteString(row.Text(r.Strict))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCSV writes the table's five columns as CSV. Missing metrics
// stay empty cells; the structured format never carries error markers.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"h", "acc_topological", "sdev_topological", "acc_original", "sdev_original"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range r.Rows {
		rec := []string{
			strconv.Itoa(row.H),
			row.Cells[0].Metric.Accuracy,
			row.Cells[0].Metric.Deviation,
			row.Cells[1].Metric.Accuracy,
			row.Cells[1].Metric.Deviation,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
