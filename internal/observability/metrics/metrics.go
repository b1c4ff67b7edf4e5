package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotdesk_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotdesk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotdesk_logins_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	checkInToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotdesk_checkin_toggles_total",
		Help: "Count of check-in transitions by direction",
	}, []string{"direction"})

	bookingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotdesk_booking_requests_total",
		Help: "Count of booking gate decisions by result",
	}, []string{"result"})

	currentVisitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotdesk_current_visitors",
		Help: "Number of users currently checked in",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin increments the login counter with a result label.
func ObserveLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// ObserveCheckInToggle records a check-in transition ("in" or "out").
func ObserveCheckInToggle(direction string) {
	checkInToggles.WithLabelValues(direction).Inc()
}

// ObserveBooking records a booking gate decision ("granted" or "denied").
func ObserveBooking(result string) {
	bookingRequests.WithLabelValues(result).Inc()
}

// SetVisitors sets the visitor gauge to the given count.
func SetVisitors(count int) {
	if count < 0 {
		count = 0
	}
	currentVisitors.Set(float64(count))
}
