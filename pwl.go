// Package pwl drives Persistent Weisfeiler-Lehman graph classification
// experiments: it sweeps the evaluator's h parameter, runs the evaluator
// in topological and original feature modes, and tabulates the accuracy
// figures it reports.
package pwl

// Version identifies pwlsweep releases.
const Version = "0.2.0"
