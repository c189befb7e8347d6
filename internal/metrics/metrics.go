// Package metrics exposes Prometheus instrumentation for the hrf server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InterventionsApplied counts applied interventions by template name.
	InterventionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrf_interventions_applied_total",
		Help: "Number of interventions applied, by template name.",
	}, []string{"template"})

	// Exports counts generated report downloads by format.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrf_exports_total",
		Help: "Number of report exports generated, by format.",
	}, []string{"format"})

	// TemplateSaves counts template store writes.
	TemplateSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hrf_template_saves_total",
		Help: "Number of templates saved or replaced.",
	})
)

// RegisterSessionGauge registers a gauge reporting the number of live
// sessions. count is called on every scrape.
func RegisterSessionGauge(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hrf_sessions_active",
		Help: "Number of live dashboard sessions.",
	}, func() float64 { return float64(count()) })
}
