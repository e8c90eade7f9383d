package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the agent.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	MessagesTotal         *prometheus.CounterVec
	ScansTotal            *prometheus.CounterVec
	ScanDuration          prometheus.Histogram
	OutboundRequestsTotal *prometheus.CounterVec
	NotificationsTotal    *prometheus.CounterVec
	ImagesCollectedTotal  prometheus.Counter
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_total",
				Help: "Inbound host messages by action and outcome.",
			},
			[]string{"action", "outcome"}, // outcome: ok, error
		),
		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scans_total",
				Help: "Page scans by outcome.",
			},
			[]string{"outcome"}, // completed, rejected, failed
		),
		ScanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scan_duration_seconds",
				Help:    "Duration of page scans including the feedback delay.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 3, 5, 10},
			},
		),
		OutboundRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbound_requests_total",
				Help: "Requests sent to the host process by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications shown by kind.",
			},
			[]string{"kind"},
		),
		ImagesCollectedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "images_collected_total",
				Help: "Qualifying images returned by collection passes.",
			},
		),
	}
}

func (m *Metrics) IncMessage(action, outcome string) {
	m.MessagesTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncScan(outcome string) {
	m.ScansTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncOutbound(action, outcome string) {
	m.OutboundRequestsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncNotification(kind string) {
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddImagesCollected(n int) {
	m.ImagesCollectedTotal.Add(float64(n))
}
