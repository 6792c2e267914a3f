package sweep

import "github.com/vmorar/P-WL/internal/report"

// Report converts the result into its storable form, carrying the raw
// evaluator output per cell so failed extractions can be inspected
// after the fact.
func (r *Result) Report() *report.RunResult {
	rr := &report.RunResult{
		ID:        r.RunID,
		Kind:      report.Sweep,
		Evaluator: r.Evaluator,
		Graphs:    r.Graphs,
		Labels:    r.Labels,
		From:      r.Span.From,
		To:        r.Span.To,
		Step:      r.Span.Step,
		Strict:    r.Strict,
		Warnings:  r.Warnings,
	}

	for _, row := range r.Rows {
		rp := report.RowReport{H: row.H, Cells: make([]report.CellReport, 0, len(row.Cells))}
		for _, c := range row.Cells {
			rp.Cells = append(rp.Cells, report.CellReport{
				Mode:      string(c.Mode),
				Accuracy:  c.Metric.Accuracy,
				Deviation: c.Metric.Deviation,
				Found:     c.Found,
				ExitCode:  c.ExitCode,
				Truncated: c.Truncated,
				Err:       c.Err,
				Output:    c.Output,
			})
		}
		rr.Rows = append(rr.Rows, rp)
	}
	return rr
}
