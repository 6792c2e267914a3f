package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vmorar/P-WL/internal/report"
	"github.com/vmorar/P-WL/internal/sweep"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a pwl_sweep result"`
	H     int    `json:"h" jsonschema:"the sweep value identifying the row"`
	Mode  string `json:"mode" jsonschema:"feature mode of the cell: topological or original"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	mode, ok := sweep.ParseMode(params.Mode)
	if !ok {
		return errorResult(fmt.Sprintf("unknown mode %q; use %q or %q", params.Mode, sweep.Topological, sweep.Original))
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}
	if err := result.Expect(report.Sweep); err != nil {
		return errorResult(err.Error())
	}

	cell, ok := result.Cell(params.H, string(mode))
	if !ok {
		return errorResult(fmt.Sprintf("run %s has no cell for h=%d mode=%s", params.RunID, params.H, mode))
	}

	return textResult(formatCell(params.RunID, params.H, cell))
}

func formatCell(runID string, h int, cell *report.CellReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", runID)
	fmt.Fprintf(&b, "Cell: h=%d %s\n", h, cell.Mode)
	fmt.Fprintln(&b)

	switch {
	case cell.Err != "":
		fmt.Fprintf(&b, "Evaluator did not start: %s\n", cell.Err)
	case cell.Found:
		fmt.Fprintf(&b, "Accuracy: %s\n", cell.Accuracy)
		fmt.Fprintf(&b, "Deviation: %s\n", cell.Deviation)
		fmt.Fprintf(&b, "Exit code: %d\n", cell.ExitCode)
	default:
		fmt.Fprintln(&b, "No metric line matched in the evaluator output.")
		fmt.Fprintf(&b, "Exit code: %d\n", cell.ExitCode)
	}

	fmt.Fprintln(&b)
	if cell.Output == "" {
		fmt.Fprintln(&b, "Output: (none captured)")
		return b.String()
	}

	fmt.Fprintln(&b, "Output:")
	for _, line := range strings.Split(strings.TrimRight(cell.Output, "\n"), "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	if cell.Truncated {
		fmt.Fprintln(&b, "    [output truncated at the configured cap]")
	}

	return b.String()
}
