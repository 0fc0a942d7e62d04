package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "partnerdesk"

// Metrics holds the counters and histograms exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	calculations *prometheus.CounterVec
	discounts    *prometheus.CounterVec
	sales        prometheus.Counter
	httpDuration *prometheus.HistogramVec
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "material_calculations_total",
		Help:      "Material requirement calculations by outcome.",
	}, []string{"outcome"})
	discounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discount_resolutions_total",
		Help:      "Discount lookups by resolved percentage.",
	}, []string{"percent"})
	sales := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_recorded_total",
		Help:      "Sales recorded against partners.",
	})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(calculations, discounts, sales, httpDuration)
	return &Metrics{
		calculations: calculations,
		discounts:    discounts,
		sales:        sales,
		httpDuration: httpDuration,
	}
}

// ObserveCalculation counts one calculation with the given outcome.
func (m *Metrics) ObserveCalculation(outcome string) {
	if m == nil || m.calculations == nil {
		return
	}
	m.calculations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveDiscount counts one resolved discount percentage.
func (m *Metrics) ObserveDiscount(percent int) {
	if m == nil || m.discounts == nil {
		return
	}
	m.discounts.WithLabelValues(strconv.Itoa(percent)).Inc()
}

// IncSales counts one recorded sale.
func (m *Metrics) IncSales() {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.Inc()
}

// ObserveHTTP records the duration of a finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
