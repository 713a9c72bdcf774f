// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BillsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_bills_created_total",
		Help: "Bills persisted.",
	})

	ReceiptRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_receipt_renders_total",
		Help: "Receipt PDFs rendered, by layout (raster or text).",
	}, []string{"layout"})

	ReceiptRenderFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_receipt_render_failures_total",
		Help: "Receipts for which every PDF layout failed.",
	})

	ReceiptUploadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_receipt_upload_failures_total",
		Help: "Receipt PDF uploads that failed and were skipped.",
	})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		BillsCreated,
		ReceiptRenders,
		ReceiptRenderFailures,
		ReceiptUploadFailures,
		RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
