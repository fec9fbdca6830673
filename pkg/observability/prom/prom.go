// Package prom implements the observability hooks on top of Prometheus.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetTreeHooks(m)
//	observability.SetReplayHooks(m)
//	observability.SetStoreHooks(m)
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/docktree/pkg/observability"
)

const namespace = "docktree"

// Metrics records tree, replay, and store events as Prometheus metrics.
type Metrics struct {
	edits        *prometheus.CounterVec
	editDuration *prometheus.HistogramVec
	collapses    *prometheus.CounterVec
	pruned       prometheus.Counter

	replays        *prometheus.CounterVec
	replayDuration prometheus.Histogram
	decodeErrors   *prometheus.CounterVec

	storeOps    *prometheus.CounterVec
	storeBytes  prometheus.Counter
	storeErrors *prometheus.CounterVec
}

var (
	_ observability.TreeHooks   = (*Metrics)(nil)
	_ observability.ReplayHooks = (*Metrics)(nil)
	_ observability.StoreHooks  = (*Metrics)(nil)
)

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		edits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "edits_total",
			Help:      "Structural tree edits by operation and status",
		}, []string{"op", "status"}),
		editDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "edit_duration_seconds",
			Help:      "Time spent inside a structural edit",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
		}, []string{"op"}),
		collapses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "collapses_total",
			Help:      "Nodes collapsed after a removal",
		}, []string{"op"}),
		pruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "pruned_tokens_total",
			Help:      "Placeholder tokens dropped by prune",
		}),
		replays: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "address",
			Name:      "replays_total",
			Help:      "Address replays by resolution tier",
		}, []string{"tier"}),
		replayDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "address",
			Name:      "replay_duration_seconds",
			Help:      "Address replay latency",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3},
		}),
		decodeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "address",
			Name:      "decode_errors_total",
			Help:      "Addresses that could not be decoded",
		}, []string{"format"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Layout store operations by backend and result",
		}, []string{"backend", "result"}),
		storeBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the layout store",
		}),
		storeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Layout store backend failures",
		}, []string{"backend", "op"}),
	}
}

// Install registers m as the global tree, replay, and store hooks.
func (m *Metrics) Install() {
	observability.SetTreeHooks(m)
	observability.SetReplayHooks(m)
	observability.SetStoreHooks(m)
}

func (m *Metrics) OnEdit(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.edits.WithLabelValues(op, status).Inc()
	m.editDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) OnCollapse(op string) { m.collapses.WithLabelValues(op).Inc() }

func (m *Metrics) OnPrune(tokens int) { m.pruned.Add(float64(tokens)) }

func (m *Metrics) OnReplay(tier string, d time.Duration) {
	m.replays.WithLabelValues(tier).Inc()
	m.replayDuration.Observe(d.Seconds())
}

func (m *Metrics) OnDecodeError(format string, _ error) {
	m.decodeErrors.WithLabelValues(format).Inc()
}

func (m *Metrics) OnStoreHit(_ context.Context, backend string) {
	m.storeOps.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnStoreMiss(_ context.Context, backend string) {
	m.storeOps.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnStoreSet(_ context.Context, backend string, size int) {
	m.storeOps.WithLabelValues(backend, "set").Inc()
	m.storeBytes.Add(float64(size))
}

func (m *Metrics) OnStoreError(_ context.Context, backend, op string, _ error) {
	m.storeErrors.WithLabelValues(backend, op).Inc()
}
