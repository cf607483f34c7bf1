// Package metrics exposes Prometheus instrumentation for the discovery
// and synchronization pipeline. Counters are live as soon as the package
// loads; Init registers them with the default registry and the query
// server serves them at /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics
var (
	ServicesRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oscsync_services_registered",
			Help: "Number of services currently in the discovery registry",
		},
	)
	GoodbyesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oscsync_goodbyes_total",
			Help: "Total number of mDNS goodbye records processed",
		},
	)
	SyncsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oscsync_syncs_total",
			Help: "Total number of successful namespace synchronizations",
		},
	)
	SyncFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oscsync_sync_failures_total",
			Help: "Total number of failed namespace fetches",
		},
	)
)

var initOnce sync.Once

// Init registers the metrics with the default Prometheus registry.
// Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			ServicesRegistered,
			GoodbyesTotal,
			SyncsTotal,
			SyncFailuresTotal,
		)
	})
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
