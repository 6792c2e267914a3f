// Package sweep drives the h-parameter experiment sweep: for every
// value in the span it invokes the external evaluator once per feature
// mode, extracts the reported accuracy, and assembles the comparison
// table. It is consumed by both the MCP server and the CLI commands.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/vmorar/P-WL/internal/config"
	"github.com/vmorar/P-WL/internal/dataset"
	"github.com/vmorar/P-WL/internal/runner"
)

// CommandRunner executes commands within a workspace.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, cwd string) (*runner.Result, error)
}

// Engine holds shared dependencies for sweep operations.
type Engine struct {
	Config    *config.Config
	Runner    CommandRunner
	Workspace string // experiment root — evaluator invocations run from here
}

// Span returns the configured sweep span.
func (e *Engine) Span() Span {
	return Span{
		From: e.Config.Sweep.From,
		To:   e.Config.Sweep.To,
		Step: e.Config.SweepStep(),
	}
}

// Rule returns the configured extraction rule.
func (e *Engine) Rule() Rule {
	return Rule{
		Marker:         e.Config.Marker(),
		AccuracyField:  e.Config.AccuracyField(),
		DeviationField: e.Config.DeviationField(),
	}
}

// Run executes the full sweep. Every h value runs in both feature
// modes; iterations are independent, so when the configuration allows
// more than one worker they run concurrently under a weighted
// semaphore. Rows are assembled in ascending h order regardless of
// completion order.
//
// Evaluator failures do not abort the sweep. They degrade the affected
// cells and surface as warnings, preserving the keep-going behavior of
// the original pipeline; strict mode changes only the rendering and
// the caller's exit policy, not the execution.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	graphs, err := dataset.Expand(e.Workspace, e.Config.GraphGlob())
	if err != nil {
		return nil, err
	}

	span := e.Span()
	values := span.Values()
	rule := e.Rule()

	res := &Result{
		RunID:     uuid.New().String(),
		Evaluator: e.Config.EvaluatorPath(),
		Graphs:    e.Config.GraphGlob(),
		Labels:    e.Config.LabelFile(),
		Span:      span,
		Strict:    e.Config.Strict,
		Rows:      make([]Row, len(values)),
	}
	if len(graphs) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("graph glob %q matched no files", e.Config.GraphGlob()))
	}

	sem := semaphore.NewWeighted(int64(e.Config.Workers()))
	var wg sync.WaitGroup
	for i, h := range values {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("sweep canceled at h=%d: %w", h, err)
		}
		wg.Add(1)
		go func(i, h int) {
			defer wg.Done()
			defer sem.Release(1)
			res.Rows[i] = e.runRow(ctx, h, graphs, rule)
		}(i, h)
	}
	wg.Wait()

	// Deterministic warning order: ascending h, then column order.
	for _, row := range res.Rows {
		for _, cell := range row.Cells {
			if cell.Failed() {
				res.Warnings = append(res.Warnings, fmt.Sprintf("h=%d %s", row.H, cell.Detail()))
			}
		}
	}

	return res, nil
}

// runRow runs one sweep value in both feature modes.
func (e *Engine) runRow(ctx context.Context, h int, graphs []string, rule Rule) Row {
	row := Row{H: h}
	for i, mode := range Modes {
		row.Cells[i] = e.runCell(ctx, h, mode, graphs, rule)
	}
	return row
}

// runCell invokes the evaluator once and extracts its metric line.
func (e *Engine) runCell(ctx context.Context, h int, mode Mode, graphs []string, rule Rule) Cell {
	argv := mode.Argv(e.Config.EvaluatorPath(), h, e.Config.Args, graphs, e.Config.LabelFile())

	cell := Cell{Mode: mode}
	res, err := e.Runner.Run(ctx, argv, "")
	if err != nil {
		cell.Err = err.Error()
		return cell
	}

	cell.RunID = res.RunID
	cell.ExitCode = res.ExitCode
	cell.Output = string(res.Output)
	cell.Truncated = res.Truncated

	metric, err := rule.Find(res.Output)
	if err != nil {
		// No metric line. The zero metric leaves the cell empty so the
		// row degrades instead of aborting the sweep.
		return cell
	}
	cell.Metric = metric
	cell.Found = true
	return cell
}
