package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is served on /api/metrics. A dedicated registry keeps the default
	// one free for tests that construct collectors repeatedly.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets cover fast local handling up to slow SMTP round trips
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Business Metrics
	ContactFormSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_contact_form_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"status"},
	)

	RateLimitRejections = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	RateLimitEntries = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "coach_rate_limit_entries",
			Help: "Number of identifiers tracked by the contact rate limiter",
		},
	)

	// Mail transport metrics
	MailDispatchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_client_send_duration_seconds",
			Help:    "Outbound mail send duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	MailDispatchTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_client_send_total",
			Help: "Total number of outbound mail sends by result kind",
		},
		[]string{"kind"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically until stop is closed
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
