package sweep

import (
	"errors"
	"strings"
)

// ErrNoMetric reports that no line of evaluator output contained the
// extraction marker.
var ErrNoMetric = errors.New("no metric line in evaluator output")

// Metric is one extracted accuracy/deviation pair. The values stay the
// exact textual fields the evaluator printed; the driver never
// converts or validates them numerically.
type Metric struct {
	Accuracy  string `json:"accuracy"`
	Deviation string `json:"deviation"`
}

// Short reports whether either field is missing, which happens when
// the matched line had fewer fields than the rule expects.
func (m Metric) Short() bool {
	return m.Accuracy == "" || m.Deviation == ""
}

// Rule locates and splits the evaluator's metric line. Marker is a
// case-sensitive substring; the field positions are 1-indexed over the
// line's whitespace-separated fields. The P-WL evaluator logs
// "INFO:P-WL:Accuracy: 85.50 +- 1.23", so the defaults are marker
// "Accuracy" with fields 2 and 4.
type Rule struct {
	Marker         string
	AccuracyField  int
	DeviationField int
}

// Extract splits one line on whitespace and selects the rule's fields.
// A position beyond the end of the line yields an empty string.
func (r Rule) Extract(line string) Metric {
	fields := strings.Fields(line)
	return Metric{
		Accuracy:  fieldAt(fields, r.AccuracyField),
		Deviation: fieldAt(fields, r.DeviationField),
	}
}

// Find scans output line by line and extracts from the first line
// containing the marker. It returns ErrNoMetric when no line matches.
func (r Rule) Find(output []byte) (Metric, error) {
	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, r.Marker) {
			return r.Extract(line), nil
		}
	}
	return Metric{}, ErrNoMetric
}

func fieldAt(fields []string, pos int) string {
	if pos < 1 || pos > len(fields) {
		return ""
	}
	return fields[pos-1]
}
