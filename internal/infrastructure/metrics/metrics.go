package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const namespace = "crm_import"

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	previews *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "company_rows_total",
			Help:      "Bulk imported company rows by outcome.",
		}, []string{"outcome"}),
		previews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_records_total",
			Help:      "Previewed spreadsheet records by validation status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.latency,
		m.rows,
		m.previews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveImport(result domain.ImportResult) {
	m.rows.WithLabelValues("success").Add(float64(result.SuccessCount))
	m.rows.WithLabelValues("error").Add(float64(result.ErrorCount))
	m.rows.WithLabelValues("warning").Add(float64(result.WarningCount))
}

func (m *Metrics) ObservePreview(valid, invalid int) {
	m.previews.WithLabelValues(string(domain.RecordValid)).Add(float64(valid))
	m.previews.WithLabelValues(string(domain.RecordError)).Add(float64(invalid))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
