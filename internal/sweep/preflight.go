package sweep

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vmorar/P-WL/internal/dataset"
)

// Issue is a preflight finding that would degrade or invalidate a
// sweep before any evaluator run.
type Issue struct {
	Message string
}

func (i Issue) String() string { return i.Message }

// Preflight validates the experiment setup without invoking the
// evaluator: the evaluator must be runnable, the graph glob should
// match, the labels must load, and the graph and label counts must
// agree (the evaluator pairs them positionally). Lenient sweeps treat
// the findings as warnings and proceed anyway, matching the original
// pipeline; strict callers abort on any.
func (e *Engine) Preflight() []Issue {
	var issues []Issue

	if msg := e.checkEvaluator(); msg != "" {
		issues = append(issues, Issue{Message: msg})
	}

	graphs, err := dataset.Expand(e.Workspace, e.Config.GraphGlob())
	switch {
	case err != nil:
		issues = append(issues, Issue{Message: err.Error()})
	case len(graphs) == 0:
		issues = append(issues, Issue{Message: fmt.Sprintf("graph glob %q matched no files", e.Config.GraphGlob())})
	}

	labelPath := e.Config.LabelFile()
	resolved := labelPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(e.Workspace, resolved)
	}
	labels, err := dataset.ReadLabels(resolved)
	if err != nil {
		issues = append(issues, Issue{Message: err.Error()})
		return issues
	}

	if len(graphs) > 0 && len(graphs) != len(labels) {
		issues = append(issues, Issue{
			Message: fmt.Sprintf("%d graphs but %d labels; the evaluator pairs them by position", len(graphs), len(labels)),
		})
	}

	return issues
}

// checkEvaluator reports why the configured evaluator cannot run, or
// "" when it can. Paths containing a separator resolve against the
// workspace; bare names go through PATH, mirroring how the runner
// will invoke it.
func (e *Engine) checkEvaluator() string {
	eval := e.Config.EvaluatorPath()

	if !strings.ContainsRune(eval, os.PathSeparator) {
		if _, err := exec.LookPath(eval); err != nil {
			return fmt.Sprintf("evaluator %s not found in PATH", eval)
		}
		return ""
	}

	path := eval
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.Workspace, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("evaluator %s not found", eval)
	}
	if info.IsDir() {
		return fmt.Sprintf("evaluator %s is a directory", eval)
	}
	if info.Mode()&0o111 == 0 {
		return fmt.Sprintf("evaluator %s is not executable", eval)
	}
	return ""
}
