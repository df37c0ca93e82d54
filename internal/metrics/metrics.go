// Package metrics exposes Prometheus collectors for engine operations and
// background jobs. Every method is nil-safe so tests can pass a nil collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
)

// Operaciones counts engine operations by outcome.
type Operaciones struct {
	total    *prometheus.CounterVec
	duracion *prometheus.HistogramVec
}

// NewOperaciones registers the operation collectors on reg.
func NewOperaciones(reg prometheus.Registerer) *Operaciones {
	if reg == nil {
		return &Operaciones{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operaciones_total",
		Help: "Engine operations by outcome (ok, rechazada, error).",
	}, []string{"operacion", "resultado"})
	duracion := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "operacion_duracion_segundos",
		Help:    "Engine operation latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operacion"})
	reg.MustRegister(total, duracion)
	return &Operaciones{total: total, duracion: duracion}
}

// Observar records one finished operation. Classified errors count as
// "rechazada", anything else as "error".
func (o *Operaciones) Observar(operacion string, inicio time.Time, err error) {
	if o == nil || o.total == nil {
		return
	}
	o.duracion.WithLabelValues(operacion).Observe(time.Since(inicio).Seconds())
	o.total.WithLabelValues(operacion, Resultado(err)).Inc()
}

// Resultado maps an operation error to its outcome label.
func Resultado(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apierror.CodeOf(err) == apierror.CodeInterno:
		return "error"
	default:
		return "rechazada"
	}
}

// Jobs counts background jobs by type and outcome.
type Jobs struct {
	procesados *prometheus.CounterVec
	dlq        *prometheus.CounterVec
}

func NewJobs(reg prometheus.Registerer) *Jobs {
	if reg == nil {
		return &Jobs{}
	}
	procesados := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_procesados_total",
		Help: "Background jobs processed by type and outcome.",
	}, []string{"tipo", "resultado"})
	dlq := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_dlq_total",
		Help: "Background jobs moved to the dead letter queue.",
	}, []string{"cola"})
	reg.MustRegister(procesados, dlq)
	return &Jobs{procesados: procesados, dlq: dlq}
}

func (j *Jobs) Procesado(tipo string, err error) {
	if j == nil || j.procesados == nil {
		return
	}
	res := "ok"
	if err != nil {
		res = "error"
	}
	j.procesados.WithLabelValues(tipo, res).Inc()
}

func (j *Jobs) EnviadoADLQ(cola string) {
	if j == nil || j.dlq == nil {
		return
	}
	j.dlq.WithLabelValues(cola).Inc()
}
