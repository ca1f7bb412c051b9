package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	DetectionsReceived prometheus.Counter
	IntentsCreated     prometheus.Counter
	IntentsThrottled   prometheus.Counter
	IntentsExpired     prometheus.Counter
	DecisionsRecorded  *prometheus.CounterVec // label: accepted
	OrdersSubmitted    prometheus.Counter
	OrdersFailed       prometheus.Counter
	CommerceLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	detections := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_detections_received_total"})
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_intents_created_total"})
	throttled := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_intents_throttled_total"})
	expired := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_intents_expired_total"})
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "reorder_decisions_recorded_total"},
		[]string{"accepted"},
	)
	submitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_orders_submitted_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "reorder_orders_failed_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reorder_commerce_submit_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(detections, created, throttled, expired, decisions, submitted, failed, latency)
	return &Registry{
		reg:                r,
		DetectionsReceived: detections,
		IntentsCreated:     created,
		IntentsThrottled:   throttled,
		IntentsExpired:     expired,
		DecisionsRecorded:  decisions,
		OrdersSubmitted:    submitted,
		OrdersFailed:       failed,
		CommerceLatencySec: latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
