package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vmorar/P-WL/internal/sweep"
)

type sweepParams struct {
	From      *int   `json:"from,omitempty" jsonschema:"first h value, inclusive. Defaults to the configured sweep."`
	To        *int   `json:"to,omitempty" jsonschema:"last h value, inclusive. Defaults to the configured sweep."`
	Step      *int   `json:"step,omitempty" jsonschema:"stride between h values. Default 1."`
	Workers   *int   `json:"workers,omitempty" jsonschema:"number of h values evaluated concurrently. Default 1 (sequential)."`
	Strict    *bool  `json:"strict,omitempty" jsonschema:"replace degraded rows with an explicit ERROR marker instead of silently emitting short rows."`
	Evaluator string `json:"evaluator,omitempty" jsonschema:"evaluator program to invoke. Defaults to the configured one."`
	Graphs    string `json:"graphs,omitempty" jsonschema:"glob over graph files, relative to the experiment root."`
	Labels    string `json:"labels,omitempty" jsonschema:"path to the ground-truth label file."`
}

func (h *handler) sweepHandler(ctx context.Context, req *mcp.CallToolRequest, params sweepParams) (*mcp.CallToolResult, any, error) {
	// Per-call copy so overrides never leak into the session config.
	cfg := *h.engine.Config
	if params.From != nil {
		cfg.Sweep.From = *params.From
	}
	if params.To != nil {
		cfg.Sweep.To = *params.To
	}
	if params.Step != nil {
		cfg.Sweep.Step = *params.Step
	}
	if params.Workers != nil {
		cfg.RawWorkers = *params.Workers
	}
	if params.Strict != nil {
		cfg.Strict = *params.Strict
	}
	if params.Evaluator != "" {
		cfg.Evaluator = params.Evaluator
	}
	if params.Graphs != "" {
		cfg.Graphs = params.Graphs
	}
	if params.Labels != "" {
		cfg.Labels = params.Labels
	}

	eng := &sweep.Engine{Config: &cfg, Runner: h.engine.Runner, Workspace: h.engine.Workspace}

	issues := eng.Preflight()
	if cfg.Strict && len(issues) > 0 {
		var b strings.Builder
		fmt.Fprintln(&b, "Preflight failed (strict mode):")
		for _, is := range issues {
			fmt.Fprintf(&b, "  %s\n", is)
		}
		return errorResult(b.String())
	}

	res, err := eng.Run(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("sweep failed: %v", err))
	}

	// Save for pwl_inspect.
	_ = h.store.Save(res.Report())
	if h.observe != nil {
		h.observe(res)
	}

	return textResult(formatSweep(res, issues))
}

func formatSweep(res *sweep.Result, issues []sweep.Issue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Evaluator: %s\n", res.Evaluator)
	fmt.Fprintf(&b, "Sweep: h=%s\n", res.Span)
	fmt.Fprintln(&b)
	fmt.Fprint(&b, res.Table())

	if len(issues) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Preflight warnings:")
		for _, is := range issues {
			fmt.Fprintf(&b, "  %s\n", is)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Warnings:")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Inspect a cell with pwl_inspect(run_id=%q, h=<h>, mode=\"topological\"|\"original\").\n", res.RunID)

	return b.String()
}
