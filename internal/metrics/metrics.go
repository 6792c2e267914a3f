// Package metrics exposes Prometheus instrumentation for sweep
// activity. Only the long-running modes (watch, mcp -http) serve it.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmorar/P-WL/internal/sweep"
)

var (
	sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pwl_sweeps_total",
			Help: "Completed sweeps by outcome.",
		},
		[]string{"status"},
	)
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pwl_evaluations_total",
			Help: "Evaluator invocations by feature mode and outcome.",
		},
		[]string{"mode", "status"},
	)
	lastAccuracy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pwl_last_accuracy",
			Help: "Most recent accuracy per feature mode, parsed from evaluator output.",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(sweepsTotal, evaluationsTotal, lastAccuracy)
}

// Observe records a completed sweep. The accuracy gauge is
// best-effort: the table pipeline never converts the evaluator's
// fields, so values that do not parse as floats are skipped here.
func Observe(res *sweep.Result) {
	status := "ok"
	if res.Failed() {
		status = "failed"
	}
	sweepsTotal.WithLabelValues(status).Inc()

	for _, row := range res.Rows {
		for _, cell := range row.Cells {
			cellStatus := "ok"
			if cell.Failed() {
				cellStatus = "failed"
			}
			evaluationsTotal.WithLabelValues(string(cell.Mode), cellStatus).Inc()

			if !cell.Found {
				continue
			}
			if v, err := strconv.ParseFloat(cell.Metric.Accuracy, 64); err == nil {
				lastAccuracy.WithLabelValues(string(cell.Mode)).Set(v)
			}
		}
	}
}

// Handler returns the /metrics HTTP handler for callers to mount.
func Handler() http.Handler {
	return promhttp.Handler()
}
