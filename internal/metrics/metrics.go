// Package metrics exposes Prometheus counters for store and planner activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the collectors on a private registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	mutations       *prometheus.CounterVec
	saves           prometheus.Counter
	persistFailures prometheus.Counter
	plans           *prometheus.CounterVec
	tasks           prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyplanner_store_mutations_total",
				Help: "Total store operations that changed tasks",
			},
			[]string{"op"},
		),
		saves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "studyplanner_store_saves_total",
				Help: "Total writes to the backing store",
			},
		),
		persistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "studyplanner_persist_failures_total",
				Help: "Total failed writes to the backing store",
			},
		),
		plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyplanner_plans_total",
				Help: "Total daily plans generated",
			},
			[]string{"outcome"},
		),
		tasks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "studyplanner_tasks",
				Help: "Number of tasks currently in the store",
			},
		),
	}

	r.registry.MustRegister(r.mutations, r.saves, r.persistFailures, r.plans, r.tasks)
	return r
}

// Mutation counts a store operation that changed tasks.
func (r *Recorder) Mutation(op string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
}

// Save counts a write to the backing store, including forced saves.
func (r *Recorder) Save() {
	if r == nil {
		return
	}
	r.saves.Inc()
}

// PersistFailure counts a failed save.
func (r *Recorder) PersistFailure() {
	if r == nil {
		return
	}
	r.persistFailures.Inc()
}

// Plan counts a generated plan by outcome.
func (r *Recorder) Plan(outcome string) {
	if r == nil {
		return
	}
	r.plans.WithLabelValues(outcome).Inc()
}

// SetTasks records the current task count.
func (r *Recorder) SetTasks(n int) {
	if r == nil {
		return
	}
	r.tasks.Set(float64(n))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
