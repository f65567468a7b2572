// Package observability métricas Prometheus del servicio y reporte de fallos de cálculo.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

var (
	_ lending.Metrics        = (*Metrics)(nil)
	_ credit.FailureReporter = (*Metrics)(nil)
)

// Metrics registro Prometheus propio con las métricas del servicio.
// Un registro por instancia permite crear varias en tests sin colisiones.
type Metrics struct {
	// Registry lo expone /metrics.
	Registry *prometheus.Registry

	log *logger.Logger

	requestDuration *prometheus.HistogramVec
	decisions       *prometheus.CounterVec
	calcFailures    *prometheus.CounterVec
	loansCreated    prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	ingestRows      *prometheus.CounterVec
}

// NewMetrics crea el registro y las métricas. log recibe los fallos reportados.
func NewMetrics(log *logger.Logger) *Metrics {
	if log == nil {
		log = logger.Nop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		log:      log.Component("observability"),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_decisions_total",
				Help: "Eligibility decisions by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		calcFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_calculation_failures_total",
				Help: "Internal failures while scoring or deciding.",
			},
			[]string{"op"},
		),
		loansCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_loans_created_total",
				Help: "Loans approved and persisted.",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_score_cache_lookups_total",
				Help: "Credit score cache lookups by result.",
			},
			[]string{"result"},
		),
		ingestRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_ingest_rows_total",
				Help: "Spreadsheet rows processed by kind and result.",
			},
			[]string{"kind", "result"},
		),
	}
}

// ObserveRequest registra la duración de una solicitud HTTP.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// ObserveDecision cuenta una decisión de elegibilidad.
func (m *Metrics) ObserveDecision(op string, reason credit.Reason) {
	m.decisions.WithLabelValues(op, string(reason)).Inc()
}

// ObserveLoanCreated cuenta un préstamo persistido.
func (m *Metrics) ObserveLoanCreated() { m.loansCreated.Inc() }

// ObserveCache cuenta un acierto o fallo del caché de puntajes.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveIngest suma las filas de una corrida de ingesta.
func (m *Metrics) ObserveIngest(kind string, upserted, skipped int) {
	m.ingestRows.WithLabelValues(kind, "upserted").Add(float64(upserted))
	m.ingestRows.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// ReportFailure registra el fallo interno de cálculo: log de error y contador.
func (m *Metrics) ReportFailure(op, customerID string, err error) {
	m.calcFailures.WithLabelValues(op).Inc()
	m.log.Error().Err(err).Str("op", op).Str("customer_id", customerID).Msg("fallo interno de cálculo")
}

// CounterValue valor actual de un contador de la familia name con las etiquetas dadas
// (en el orden declarado). 0 si no existe.
func (m *Metrics) CounterValue(name string, labels ...string) float64 {
	var c prometheus.Counter
	switch name {
	case "decisions":
		c = m.decisions.WithLabelValues(labels...)
	case "calculation_failures":
		c = m.calcFailures.WithLabelValues(labels...)
	case "loans_created":
		c = m.loansCreated
	case "cache_lookups":
		c = m.cacheLookups.WithLabelValues(labels...)
	case "ingest_rows":
		c = m.ingestRows.WithLabelValues(labels...)
	default:
		return 0
	}
	return counterValue(c)
}

func counterValue(c prometheus.Counter) float64 {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		return 0
	}
	if out.Counter != nil && out.Counter.Value != nil {
		return *out.Counter.Value
	}
	return 0
}
