package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timepick-cli/internal/picker"
)

// Metrics bundles the prometheus collectors for pickers and the HTTP API. It
// implements picker.Observer.
type Metrics struct {
	RefreshesTotal     *prometheus.CounterVec
	DisabledChoices    *prometheus.GaugeVec
	RejectedTotal      *prometheus.CounterVec
	ConfirmsTotal      *prometheus.CounterVec
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	RateLimitDropped   prometheus.Counter
}

var _ picker.Observer = (*Metrics)(nil)

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timepick_refreshes_total",
			Help: "Total number of column revalidations per picker.",
		}, []string{"field"}),
		DisabledChoices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "timepick_disabled_choices",
			Help: "Disabled choices across all columns after the last revalidation.",
		}, []string{"field"}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timepick_rejected_selections_total",
			Help: "Total number of selections refused because the choice was disabled.",
		}, []string{"field", "column"}),
		ConfirmsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timepick_confirms_total",
			Help: "Total number of confirmed selections.",
		}, []string{"field"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timepick_http_requests_total",
			Help: "Total number of HTTP API requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timepick_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timepick_http_ratelimit_dropped_total",
			Help: "Total number of requests dropped by the rate limiter.",
		}),
	}

	registry.MustRegister(
		m.RefreshesTotal,
		m.DisabledChoices,
		m.RejectedTotal,
		m.ConfirmsTotal,
		m.RequestsTotal,
		m.RequestDurationSec,
		m.RateLimitDropped,
	)

	return m
}

func (m *Metrics) Refreshed(field string, disabled int) {
	m.RefreshesTotal.WithLabelValues(field).Inc()
	m.DisabledChoices.WithLabelValues(field).Set(float64(disabled))
}

func (m *Metrics) Rejected(field string, col picker.Column) {
	m.RejectedTotal.WithLabelValues(field, string(col)).Inc()
}

func (m *Metrics) Confirmed(field string) {
	m.ConfirmsTotal.WithLabelValues(field).Inc()
}

// ObserveRequest records one finished HTTP request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if route == "" {
		route = "other"
	}
	s := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(route, method, s).Inc()
	m.RequestDurationSec.WithLabelValues(route, method, s).Observe(took.Seconds())
}
