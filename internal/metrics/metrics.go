package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lotes"

// Metrics holds the process collectors. A nil *Metrics is valid and records
// nothing, so services can be built without it in tests.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	uploadsTotal       *prometheus.CounterVec
	uploadBytes        prometheus.Histogram
	classifierTotal    *prometheus.CounterVec
	classifierDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "uploads_total",
			Help:      "Uploaded image files by outcome.",
		},
		[]string{"status"},
	)
	uploadBytes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "upload_bytes",
			Help:      "Size of stored images in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 10),
		},
	)
	classifierTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "requests_total",
			Help:      "Classifier calls by outcome.",
		},
		[]string{"status"},
	)
	classifierDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "request_duration_seconds",
			Help:      "Classifier call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		uploadsTotal,
		uploadBytes,
		classifierTotal,
		classifierDuration,
	)

	return &Metrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		uploadsTotal:       uploadsTotal,
		uploadBytes:        uploadBytes,
		classifierTotal:    classifierTotal,
		classifierDuration: classifierDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by the matched route
// pattern, so ids in the path do not explode cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		m.requestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) ObserveUpload(size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.uploadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.uploadsTotal.WithLabelValues("success").Inc()
	m.uploadBytes.Observe(float64(size))
}

func (m *Metrics) ObserveClassifier(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.classifierTotal.WithLabelValues(status).Inc()
	m.classifierDuration.Observe(duration.Seconds())
}
