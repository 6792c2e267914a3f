package sweep

import "strconv"

// Mode selects the evaluator's feature set.
type Mode string

const (
	// Topological leaves the suppression flag unset; the evaluator
	// classifies on topology-derived features.
	Topological Mode = "topological"
	// Original passes -s, switching the evaluator to its baseline
	// feature set.
	Original Mode = "original"
)

// Modes lists the feature modes in table column order.
var Modes = [2]Mode{Topological, Original}

// ParseMode maps a mode name to its Mode, reporting whether the name
// is known.
func ParseMode(name string) (Mode, bool) {
	switch Mode(name) {
	case Topological:
		return Topological, true
	case Original:
		return Original, true
	}
	return "", false
}

// Argv builds the evaluator invocation for one sweep value:
//
//	evaluator [-s] -n <h> [extra...] <graphs...> -l <labels>
func (m Mode) Argv(evaluator string, h int, extra, graphs []string, labels string) []string {
	argv := make([]string, 0, len(extra)+len(graphs)+6)
	argv = append(argv, evaluator)
	if m == Original {
		argv = append(argv, "-s")
	}
	argv = append(argv, "-n", strconv.Itoa(h))
	argv = append(argv, extra...)
	argv = append(argv, graphs...)
	argv = append(argv, "-l", labels)
	return argv
}
