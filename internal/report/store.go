// Package report provides structured persistence and retrieval of
// sweep run results. Runs are stored as typed structs and can be
// drilled into by sweep value and feature mode, down to the raw
// evaluator output that produced each cell.
package report

import "fmt"

// Kind identifies the type of a run.
type Kind string

// Sweep is an h-parameter experiment sweep run.
const Sweep Kind = "sweep"

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult holds the structured output of one sweep run.
type RunResult struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Evaluator string `json:"evaluator"`
	Graphs    string `json:"graphs"` // glob as configured
	Labels    string `json:"labels"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Step      int    `json:"step,omitempty"`
	Strict    bool   `json:"strict,omitempty"`

	Rows     []RowReport `json:"rows,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// RowReport is one sweep value's pair of evaluator invocations.
type RowReport struct {
	H     int          `json:"h"`
	Cells []CellReport `json:"cells"`
}

// CellReport is one evaluator invocation with its captured output.
// Output is the combined stdout+stderr stream, already capped by the
// runner; it is what extraction saw, so it is the ground truth when a
// cell came back empty.
type CellReport struct {
	Mode      string `json:"mode"`
	Accuracy  string `json:"accuracy"`
	Deviation string `json:"deviation"`
	Found     bool   `json:"found"`
	ExitCode  int    `json:"exit_code"`
	Truncated bool   `json:"truncated,omitempty"`
	Err       string `json:"err,omitempty"`
	Output    string `json:"output,omitempty"`
}

// Expect returns an error if the run's Kind does not match want.
func (r *RunResult) Expect(want Kind) error {
	if r.Kind != want {
		return fmt.Errorf("run %s is a %s run, not a %s run", r.ID, r.Kind, want)
	}
	return nil
}

// Row returns the row for a sweep value.
func (r *RunResult) Row(h int) (*RowReport, bool) {
	for i := range r.Rows {
		if r.Rows[i].H == h {
			return &r.Rows[i], true
		}
	}
	return nil, false
}

// Cell returns the cell for a sweep value and mode name.
func (r *RunResult) Cell(h int, mode string) (*CellReport, bool) {
	row, ok := r.Row(h)
	if !ok {
		return nil, false
	}
	for i := range row.Cells {
		if row.Cells[i].Mode == mode {
			return &row.Cells[i], true
		}
	}
	return nil, false
}
