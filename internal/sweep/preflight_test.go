package sweep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmorar/P-WL/internal/config"
)

// newPreflightEngine builds an engine over a workspace with an
// executable evaluator, two graphs, and two labels.
func newPreflightEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "eval.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, filepath.Join(dir, "data", "a.gml"), "graph []\n")
	writeTestFile(t, filepath.Join(dir, "data", "b.gml"), "graph []\n")
	writeTestFile(t, filepath.Join(dir, "data", "Labels.txt"), "1\n2\n")
	cfg := &config.Config{Evaluator: "./eval.sh"}
	return &Engine{Config: cfg, Runner: &fakeRunner{}, Workspace: dir}
}

func issuesContain(issues []Issue, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, substr) {
			return true
		}
	}
	return false
}

func TestPreflight_AllClear(t *testing.T) {
	e := newPreflightEngine(t)
	if issues := e.Preflight(); len(issues) != 0 {
		t.Errorf("Preflight = %v, want none", issues)
	}
}

func TestPreflight_EvaluatorMissing(t *testing.T) {
	e := newPreflightEngine(t)
	e.Config.Evaluator = "./absent.py"

	issues := e.Preflight()
	if !issuesContain(issues, "not found") {
		t.Errorf("Preflight = %v, want evaluator not found", issues)
	}
}

func TestPreflight_EvaluatorNotExecutable(t *testing.T) {
	e := newPreflightEngine(t)
	if err := os.Chmod(filepath.Join(e.Workspace, "eval.sh"), 0o644); err != nil {
		t.Fatal(err)
	}

	issues := e.Preflight()
	if !issuesContain(issues, "not executable") {
		t.Errorf("Preflight = %v, want not executable", issues)
	}
}

func TestPreflight_EvaluatorNotInPath(t *testing.T) {
	e := newPreflightEngine(t)
	e.Config.Evaluator = "pwl-definitely-missing-xyz"

	issues := e.Preflight()
	if !issuesContain(issues, "not found in PATH") {
		t.Errorf("Preflight = %v, want PATH lookup failure", issues)
	}
}

func TestPreflight_NoGraphs(t *testing.T) {
	e := newPreflightEngine(t)
	e.Config.Graphs = "data/*.graphml"

	issues := e.Preflight()
	if !issuesContain(issues, "matched no files") {
		t.Errorf("Preflight = %v, want empty glob reported", issues)
	}
}

func TestPreflight_LabelsMissing(t *testing.T) {
	e := newPreflightEngine(t)
	e.Config.Labels = "data/Absent.txt"

	issues := e.Preflight()
	if !issuesContain(issues, "labels") {
		t.Errorf("Preflight = %v, want label read failure", issues)
	}
}

func TestPreflight_CountMismatch(t *testing.T) {
	e := newPreflightEngine(t)
	writeTestFile(t, filepath.Join(e.Workspace, "data", "Labels.txt"), "1\n2\n1\n")

	issues := e.Preflight()
	if !issuesContain(issues, "2 graphs but 3 labels") {
		t.Errorf("Preflight = %v, want count mismatch", issues)
	}
}
