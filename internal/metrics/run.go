package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run counts cache decisions and simulator invocations for one process.
// Each Run owns its registry so tests and concurrent batches do not share
// counters.
type Run struct {
	Registry *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	executions     *prometheus.CounterVec
	execDuration   prometheus.Histogram
	parseFailures  prometheus.Counter
	rowsParsed     prometheus.Counter
	scenesInFlight prometheus.Gauge
}

func NewRun() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Run{
		Registry: reg,
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hitsim_cache_lookups_total",
			Help: "Artifact lookups by outcome",
		}, []string{"outcome"}), // "hit" or "miss"
		executions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hitsim_simulator_runs_total",
			Help: "Simulator invocations by exit status",
		}, []string{"status"}), // "ok" or "failed"
		execDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hitsim_simulator_run_seconds",
			Help:    "Wall time of simulator invocations",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1h
		}),
		parseFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hitsim_parse_failures_total",
			Help: "Artifacts that could not be parsed",
		}),
		rowsParsed: f.NewCounter(prometheus.CounterOpts{
			Name: "hitsim_rows_parsed_total",
			Help: "Particle rows read from artifacts",
		}),
		scenesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "hitsim_scenes_in_flight",
			Help: "Scenes currently being executed",
		}),
	}
}

// The methods below accept a nil receiver so callers can run without
// metrics.

func (r *Run) CacheHit() {
	if r != nil {
		r.cacheLookups.WithLabelValues("hit").Inc()
	}
}

func (r *Run) CacheMiss() {
	if r != nil {
		r.cacheLookups.WithLabelValues("miss").Inc()
	}
}

func (r *Run) Executed(d time.Duration, ok bool) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.executions.WithLabelValues(status).Inc()
	r.execDuration.Observe(d.Seconds())
}

func (r *Run) ParseFailed() {
	if r != nil {
		r.parseFailures.Inc()
	}
}

func (r *Run) Parsed(rows int) {
	if r != nil {
		r.rowsParsed.Add(float64(rows))
	}
}

func (r *Run) SceneStarted() {
	if r != nil {
		r.scenesInFlight.Inc()
	}
}

func (r *Run) SceneDone() {
	if r != nil {
		r.scenesInFlight.Dec()
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
