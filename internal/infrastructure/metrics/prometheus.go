// Package metrics expone contadores e histogramas de la máquina de estados en Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
)

var _ fulfillment.Metrics = (*Prometheus)(nil)

// Prometheus implementa fulfillment.Metrics sobre un registry propio.
type Prometheus struct {
	registry *prometheus.Registry
	changes  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheus registra las métricas del servicio más las de runtime de Go y del proceso.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "status_changes_total",
			Help:      "Solicitudes de cambio de estado de pedidos por origen, destino y resultado.",
		}, []string{"from", "to", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fulfillment",
			Name:      "status_change_duration_seconds",
			Help:      "Duración de la solicitud de cambio de estado, incluida la transacción.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"to"}),
	}
	reg.MustRegister(
		p.changes,
		p.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveStatusChange registra una solicitud. from vacío (pedido no leído) se reporta como "none".
func (p *Prometheus) ObserveStatusChange(from, to, result string, elapsed time.Duration) {
	if from == "" {
		from = "none"
	}
	p.changes.WithLabelValues(from, to, result).Inc()
	p.duration.WithLabelValues(to).Observe(elapsed.Seconds())
}

// Registry registry con todas las métricas (para tests y exportadores).
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler handler HTTP de exposición para /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
