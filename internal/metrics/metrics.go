package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики приложения в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
	EvidenceUploads     prometheus.Counter
	EvidenceUploadBytes prometheus.Counter
	StatusChanges       *prometheus.CounterVec
	ReportsGenerated    *prometheus.CounterVec
	LoginAttempts       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hipaa_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hipaa_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		EvidenceUploads: f.NewCounter(prometheus.CounterOpts{
			Name: "hipaa_evidence_uploads_total",
			Help: "Number of evidence files stored.",
		}),
		EvidenceUploadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "hipaa_evidence_upload_bytes_total",
			Help: "Bytes of evidence written to disk.",
		}),
		StatusChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hipaa_requirement_status_changes_total",
				Help: "Requirement status updates by new status.",
			},
			[]string{"status"},
		),
		ReportsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hipaa_reports_generated_total",
				Help: "Reports rendered by kind.",
			},
			[]string{"kind"},
		),
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hipaa_login_attempts_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest: route — шаблон маршрута gin, а не сырой путь.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveUpload(size int64) {
	m.EvidenceUploads.Inc()
	m.EvidenceUploadBytes.Add(float64(size))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
