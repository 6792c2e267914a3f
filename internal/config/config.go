// Package config loads and validates the optional .pwlsweep YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for an unconfigured experiment. The evaluator, glob,
// and label paths match the layout the P-WL evaluator ships with.
const (
	DefaultTimeout   = 5 * time.Minute
	DefaultMaxOutput = 1 << 20 // 1 MB
	DefaultEvaluator = "./main.py"
	DefaultGraphGlob = "data/*.gml"
	DefaultLabelFile = "data/Labels.txt"
)

// Defaults for locating the accuracy figures in evaluator output. The
// evaluator logs one summary line of the form
// "INFO:P-WL:Accuracy: 85.50 +- 1.23", so fields 2 and 4 carry the
// accuracy and its standard deviation.
const (
	DefaultMarker         = "Accuracy"
	DefaultAccuracyField  = 2
	DefaultDeviationField = 4
)

// Config holds the parsed .pwlsweep configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int           `yaml:"version"`
	Evaluator    string        `yaml:"evaluator"`  // evaluator program path
	Graphs       string        `yaml:"graphs"`     // glob over graph files
	Labels       string        `yaml:"labels"`     // ground-truth label file
	RawTimeout   string        `yaml:"timeout"`    // e.g. "5m", "30s"
	RawMaxOutput int           `yaml:"max_output"` // bytes
	RawWorkers   int           `yaml:"workers"`    // concurrent sweep values
	Strict       bool          `yaml:"strict"`     // error rows instead of silent blanks
	Args         []string      `yaml:"args"`       // extra evaluator flags (e.g. -c, -b, -g)
	Sweep        SweepConfig   `yaml:"sweep"`
	Extract      ExtractConfig `yaml:"extract"`
}

// SweepConfig bounds the h parameter range. Both bounds are inclusive
// and default to 0, giving the single-value sweep. From > To yields an
// empty sweep.
type SweepConfig struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
	Step int `yaml:"step"` // default 1
}

// ExtractConfig overrides how the accuracy line is located and split.
// Fields are 1-indexed positions among the line's whitespace-separated
// fields.
type ExtractConfig struct {
	Marker         string `yaml:"marker"`
	AccuracyField  int    `yaml:"accuracy_field"`
	DeviationField int    `yaml:"deviation_field"`
}

// Timeout returns the configured per-invocation timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured output cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// EvaluatorPath returns the configured evaluator program or the default.
func (c *Config) EvaluatorPath() string {
	if c.Evaluator != "" {
		return c.Evaluator
	}
	return DefaultEvaluator
}

// GraphGlob returns the configured graph glob or the default.
func (c *Config) GraphGlob() string {
	if c.Graphs != "" {
		return c.Graphs
	}
	return DefaultGraphGlob
}

// LabelFile returns the configured label file or the default.
func (c *Config) LabelFile() string {
	if c.Labels != "" {
		return c.Labels
	}
	return DefaultLabelFile
}

// Workers returns the configured sweep parallelism, at least 1.
func (c *Config) Workers() int {
	if c.RawWorkers > 0 {
		return c.RawWorkers
	}
	return 1
}

// SweepStep returns the configured step, at least 1.
func (c *Config) SweepStep() int {
	if c.Sweep.Step > 0 {
		return c.Sweep.Step
	}
	return 1
}

// Marker returns the substring that identifies the accuracy line.
func (c *Config) Marker() string {
	if c.Extract.Marker != "" {
		return c.Extract.Marker
	}
	return DefaultMarker
}

// AccuracyField returns the 1-indexed accuracy field position.
func (c *Config) AccuracyField() int {
	if c.Extract.AccuracyField > 0 {
		return c.Extract.AccuracyField
	}
	return DefaultAccuracyField
}

// DeviationField returns the 1-indexed standard-deviation field position.
func (c *Config) DeviationField() int {
	if c.Extract.DeviationField > 0 {
		return c.Extract.DeviationField
	}
	return DefaultDeviationField
}

// LoadResult holds the parsed config and the discovered experiment root.
type LoadResult struct {
	Config *Config
	Root   string // directory containing .pwlsweep; falls back to workspace
}

// Load reads the .pwlsweep file closest to workspace. The experiment
// root is discovered by walking upward from workspace looking for the
// file, so sweeps started from a subdirectory of the experiment tree
// still pick it up. If no .pwlsweep file exists, a default Config is
// returned and workspace is the root.
func Load(workspace string) (*LoadResult, error) {
	root, err := findExperimentRoot(workspace)
	if err != nil {
		// No .pwlsweep anywhere above; run on defaults from workspace.
		abs, absErr := filepath.Abs(workspace)
		if absErr != nil {
			return nil, fmt.Errorf("resolving workspace: %w", absErr)
		}
		return &LoadResult{Config: &Config{}, Root: abs}, nil
	}

	data, err := os.ReadFile(filepath.Join(root, ".pwlsweep"))
	if err != nil {
		return nil, fmt.Errorf("reading .pwlsweep: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .pwlsweep: %w", err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// LoadFile reads a specific configuration file instead of discovering
// one. The experiment root is the file's directory.
func LoadFile(path string) (*LoadResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Root: filepath.Dir(abs)}, nil
}

// findExperimentRoot walks upward from dir looking for a directory
// containing a .pwlsweep file.
func findExperimentRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".pwlsweep")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf(".pwlsweep not found")
		}
		dir = parent
	}
}
