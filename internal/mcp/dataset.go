package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vmorar/P-WL/internal/dataset"
)

// sampleFiles caps how many graph files the summary lists.
const sampleFiles = 10

type datasetParams struct{}

func (h *handler) datasetHandler(ctx context.Context, req *mcp.CallToolRequest, _ datasetParams) (*mcp.CallToolResult, any, error) {
	cfg := h.engine.Config

	info, err := dataset.Describe(h.engine.Workspace, cfg.GraphGlob(), cfg.LabelFile())
	if err != nil {
		return errorResult(fmt.Sprintf("describing dataset: %v", err))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Graphs: %d files matching %s\n", len(info.Graphs), info.Glob)
	fmt.Fprintf(&b, "Labels: %d in %s\n", info.Labels, info.LabelPath)
	if info.Mismatch() {
		fmt.Fprintf(&b, "WARNING: %d graphs but %d labels; the evaluator pairs them by position.\n", len(info.Graphs), info.Labels)
	}
	if len(info.Graphs) > 0 {
		fmt.Fprintln(&b)
		n := len(info.Graphs)
		if n > sampleFiles {
			n = sampleFiles
		}
		fmt.Fprintf(&b, "Sample files (%d of %d):\n", n, len(info.Graphs))
		for _, f := range info.Graphs[:n] {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	rule := h.engine.Rule()
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Configuration:")
	fmt.Fprintf(&b, "  evaluator: %s\n", cfg.EvaluatorPath())
	fmt.Fprintf(&b, "  sweep: h=%s, workers %d\n", h.engine.Span(), cfg.Workers())
	fmt.Fprintf(&b, "  strict: %t\n", cfg.Strict)
	fmt.Fprintf(&b, "  timeout: %s per invocation\n", cfg.Timeout())
	fmt.Fprintf(&b, "  extraction: marker %q, fields %d and %d\n", rule.Marker, rule.AccuracyField, rule.DeviationField)
	if len(cfg.Args) > 0 {
		fmt.Fprintf(&b, "  extra args: %s\n", strings.Join(cfg.Args, " "))
	}

	return textResult(b.String())
}
