package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromExperimentRoot(t *testing.T) {
	dir := t.TempDir()
	body := "version: 1\ntimeout: 10m\nevaluator: ./eval.py\nsweep: {from: 0, to: 4}\n"
	if err := os.WriteFile(filepath.Join(dir, ".pwlsweep"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q", res.Root, dir)
	}
	if res.Config.Version != 1 {
		t.Errorf("Config.Version = %d, want 1", res.Config.Version)
	}
	if res.Config.Timeout() != 10*time.Minute {
		t.Errorf("Timeout() = %v, want 10m", res.Config.Timeout())
	}
	if res.Config.EvaluatorPath() != "./eval.py" {
		t.Errorf("EvaluatorPath() = %q, want ./eval.py", res.Config.EvaluatorPath())
	}
	if res.Config.Sweep.To != 4 {
		t.Errorf("Sweep.To = %d, want 4", res.Config.Sweep.To)
	}
}

func TestLoad_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".pwlsweep"), []byte("version: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(root, "data", "TRIANGLES")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != root {
		t.Errorf("Root = %q, want %q", res.Root, root)
	}
	if res.Config.Version != 2 {
		t.Errorf("Config.Version = %d, want 2", res.Config.Version)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q (fallback to workspace)", res.Root, dir)
	}
	if res.Config.RawTimeout != "" {
		t.Errorf("expected default config, got RawTimeout = %q", res.Config.RawTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangles.yaml")
	if err := os.WriteFile(path, []byte("graphs: 'TRIANGLES/*.gml'\nworkers: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q", res.Root, dir)
	}
	if res.Config.GraphGlob() != "TRIANGLES/*.gml" {
		t.Errorf("GraphGlob() = %q", res.Config.GraphGlob())
	}
	if res.Config.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", res.Config.Workers())
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("LoadFile(absent) = nil error, want error")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := cfg.MaxOutputBytes(); got != DefaultMaxOutput {
		t.Errorf("MaxOutputBytes() = %d, want %d", got, DefaultMaxOutput)
	}
	if got := cfg.EvaluatorPath(); got != DefaultEvaluator {
		t.Errorf("EvaluatorPath() = %q, want %q", got, DefaultEvaluator)
	}
	if got := cfg.GraphGlob(); got != DefaultGraphGlob {
		t.Errorf("GraphGlob() = %q, want %q", got, DefaultGraphGlob)
	}
	if got := cfg.LabelFile(); got != DefaultLabelFile {
		t.Errorf("LabelFile() = %q, want %q", got, DefaultLabelFile)
	}
	if got := cfg.Workers(); got != 1 {
		t.Errorf("Workers() = %d, want 1", got)
	}
	if got := cfg.SweepStep(); got != 1 {
		t.Errorf("SweepStep() = %d, want 1", got)
	}
	if got := cfg.Marker(); got != DefaultMarker {
		t.Errorf("Marker() = %q, want %q", got, DefaultMarker)
	}
	if got := cfg.AccuracyField(); got != 2 {
		t.Errorf("AccuracyField() = %d, want 2", got)
	}
	if got := cfg.DeviationField(); got != 4 {
		t.Errorf("DeviationField() = %d, want 4", got)
	}
}

func TestDefaults_InvalidValues(t *testing.T) {
	cfg := &Config{RawTimeout: "not-a-duration", RawWorkers: -3, Sweep: SweepConfig{Step: -1}}

	if got := cfg.Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want default for unparsable value", got)
	}
	if got := cfg.Workers(); got != 1 {
		t.Errorf("Workers() = %d, want 1 for negative value", got)
	}
	if got := cfg.SweepStep(); got != 1 {
		t.Errorf("SweepStep() = %d, want 1 for negative value", got)
	}
}
