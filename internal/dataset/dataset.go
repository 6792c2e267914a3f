// Package dataset locates the graph files and ground-truth labels an
// experiment sweep runs over.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Info summarizes a dataset as the evaluator will see it.
type Info struct {
	Glob      string
	LabelPath string
	Graphs    []string // expanded graph files, sorted, relative to the workspace
	Labels    int      // label count
}

// Mismatch reports whether the graph and label counts disagree. The
// evaluator pairs the i-th graph with the i-th label, so a mismatch
// means a broken dataset.
func (i *Info) Mismatch() bool {
	return len(i.Graphs) != i.Labels
}

// Expand returns the files matching the graph glob, sorted. Relative
// patterns are resolved against dir and the returned paths stay
// relative to it. No match yields an empty slice, not an error.
func Expand(dir, glob string) ([]string, error) {
	pattern := glob
	if dir != "" && !filepath.IsAbs(pattern) {
		pattern = filepath.Join(dir, pattern)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding graph glob %q: %w", glob, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if dir != "" && !filepath.IsAbs(glob) {
			if rel, err := filepath.Rel(dir, m); err == nil {
				m = rel
			}
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// ReadLabels reads ground-truth labels, one per non-blank line.
func ReadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading labels %s: %w", path, err)
	}
	return labels, nil
}

// Describe expands the graph glob and counts labels. The label path is
// resolved against dir when relative. A missing or unreadable label
// file is an error; an empty glob match is not, so callers can report
// it on their own terms.
func Describe(dir, glob, labelPath string) (*Info, error) {
	graphs, err := Expand(dir, glob)
	if err != nil {
		return nil, err
	}

	resolved := labelPath
	if dir != "" && !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	labels, err := ReadLabels(resolved)
	if err != nil {
		return nil, err
	}

	return &Info{
		Glob:      glob,
		LabelPath: labelPath,
		Graphs:    graphs,
		Labels:    len(labels),
	}, nil
}
