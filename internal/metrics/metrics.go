// Package metrics exposes registry and routing metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zot/ui-shell/internal/registry"
)

// Resolve and reload result labels.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultNotReady = "not_ready"
	ResultOK       = "ok"
	ResultError    = "error"
)

// Metrics holds the shell's collectors in a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	modules       prometheus.Gauge
	routes        prometheus.Gauge
	drawerEntries prometheus.Gauge
	generation    prometheus.Gauge
	resolves      *prometheus.CounterVec
	reloads       *prometheus.CounterVec
}

// New creates the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		modules: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ui_shell_modules",
			Help: "Number of registered feature modules",
		}),
		routes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ui_shell_routes",
			Help: "Number of registered routes",
		}),
		drawerEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ui_shell_drawer_entries",
			Help: "Number of top-level drawer entries",
		}),
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ui_shell_registry_generation",
			Help: "Generation of the published registry snapshot",
		}),
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ui_shell_resolves_total",
			Help: "Route resolutions by result",
		}, []string{"result"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ui_shell_reloads_total",
			Help: "Descriptor reloads by result",
		}, []string{"result"}),
	}
}

// ObserveSnapshot records the shape of a newly published snapshot.
// It has the registry.SwapListener signature.
func (m *Metrics) ObserveSnapshot(snap *registry.Snapshot) {
	m.modules.Set(float64(len(snap.Modules())))
	m.routes.Set(float64(len(snap.Routes())))
	m.drawerEntries.Set(float64(len(snap.List())))
	m.generation.Set(float64(snap.Generation()))
}

// ObserveResolve counts a resolve outcome.
func (m *Metrics) ObserveResolve(err error) {
	switch {
	case err == nil:
		m.resolves.WithLabelValues(ResultFound).Inc()
	case errors.Is(err, registry.ErrRegistryNotReady):
		m.resolves.WithLabelValues(ResultNotReady).Inc()
	default:
		m.resolves.WithLabelValues(ResultNotFound).Inc()
	}
}

// ObserveReload counts a reload outcome. It has the hotload.ResultFunc signature.
func (m *Metrics) ObserveReload(err error) {
	if err != nil {
		m.reloads.WithLabelValues(ResultError).Inc()
		return
	}
	m.reloads.WithLabelValues(ResultOK).Inc()
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
