// Package mcp provides the pwlsweep MCP server, registering all tools
// and publishing model instructions.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	pwl "github.com/vmorar/P-WL"
	"github.com/vmorar/P-WL/internal/config"
	"github.com/vmorar/P-WL/internal/report"
	"github.com/vmorar/P-WL/internal/runner"
	"github.com/vmorar/P-WL/internal/sweep"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *sweep.Engine
	runner *runner.Runner // nil when a fake command runner is injected
	store  report.Store

	// observe, when set, records each completed sweep (Prometheus in
	// the long-running serving modes).
	observe func(*sweep.Result)
}

// NewServer creates an MCP server with all pwlsweep tools registered.
func NewServer(cfg *config.Config, r *runner.Runner, store report.Store, workspace string, opts ...ServerOption) *mcp.Server {
	var so serverOptions
	for _, o := range opts {
		o(&so)
	}

	var cr sweep.CommandRunner = r
	if so.commandRunner != nil {
		cr = so.commandRunner
	}

	h := &handler{
		engine: &sweep.Engine{
			Config:    cfg,
			Runner:    cr,
			Workspace: workspace,
		},
		runner:  r,
		store:   store,
		observe: so.observe,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "pwlsweep", Version: pwl.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "pwl_dataset",
		Description: `Summarise the experiment dataset and the effective configuration.

Use this before sweeping. Expands the graph glob, counts ground-truth labels, and flags a
graph/label count mismatch (the evaluator pairs them by position, so a mismatch means a
broken dataset). Also reports the evaluator, sweep span, and extraction rule that pwl_sweep
will use.`,
	}, h.datasetHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "pwl_sweep",
		Description: `Run the h-parameter sweep: for each h the evaluator runs once per feature mode
(topological, then original with -s) and the accuracy line is extracted from its output.

Returns the comparison table (one row per h: accuracy and standard deviation for both
modes) plus a run ID. Raw evaluator output is stored per cell for drill-down via
pwl_inspect. Empty table cells mean the evaluator printed no accuracy line for that cell.`,
	}, h.sweepHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "pwl_inspect",
		Description: `Drill into one cell of a pwl_sweep run.

Use the run_id from a pwl_sweep result together with the h value and feature mode
("topological" or "original"). Returns the extraction outcome and the captured evaluator
output, which is the ground truth when a table cell came back empty.`,
	}, h.inspectHandler)

	return s
}

// ServerOption configures the pwlsweep MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	commandRunner sweep.CommandRunner
	observe       func(*sweep.Result)
}

// WithCommandRunner substitutes the evaluator command runner. Tests use
// this to avoid spawning real processes.
func WithCommandRunner(cr sweep.CommandRunner) ServerOption {
	return func(o *serverOptions) {
		o.commandRunner = cr
	}
}

// WithObserver records each completed sweep, e.g. into Prometheus.
func WithObserver(fn func(*sweep.Result)) ServerOption {
	return func(o *serverOptions) {
		o.observe = fn
	}
}

// updateWorkspaceFromRoots queries the client for MCP roots and moves
// the engine (and runner) to the experiment tree the client is working
// in, reloading its .pwlsweep. Called during session initialization,
// before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	loaded, err := config.Load(u.Path)
	if err != nil {
		return
	}

	if h.runner != nil {
		h.runner.Workspace = loaded.Root
		h.runner.Timeout = loaded.Config.Timeout()
		h.runner.MaxOutput = loaded.Config.MaxOutputBytes()
	}
	h.engine.Config = loaded.Config
	h.engine.Workspace = loaded.Root
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
