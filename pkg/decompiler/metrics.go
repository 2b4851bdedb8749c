package decompiler

import "github.com/prometheus/client_golang/prometheus"

// Metrics, grounded on neo-go's pkg/network/prometheus.go: package-level
// collectors registered once in init() against the default registerer,
// rather than threaded through Options as a dependency.
var (
	decompilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neodecompiler",
		Name:      "decompiles_total",
		Help:      "Total number of Decompile invocations.",
	})

	cacheResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "neodecompiler",
		Name:      "cache_results_total",
		Help:      "In-process LRU cache results by outcome (hit/miss).",
	}, []string{"result"})

	warningsByKind = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "neodecompiler",
		Name:      "warnings_total",
		Help:      "Warnings recorded per decompile, by kind.",
	}, []string{"kind"})

	ssaDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "neodecompiler",
		Name:      "ssa_build_seconds",
		Help:      "Wall-clock time spent constructing SSA form on demand.",
	})
)

func init() {
	prometheus.MustRegister(decompilesTotal, cacheResults, warningsByKind, ssaDuration)
}

func recordWarnings(ws []Warning) {
	for _, w := range ws {
		warningsByKind.WithLabelValues(w.Kind).Inc()
	}
}
