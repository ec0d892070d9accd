// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sources label the entry point that committed a sale.
const (
	SourceAPI    = "api"
	SourceImport = "import"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesledger_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salesledger_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SalesCommitted counts sales committed by the sale processor, by source.
	SalesCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesledger_sales_committed_total",
		Help: "Sales committed, by source (api or import).",
	}, []string{"source"})

	// LinesSkipped counts cart lines dropped during sale creation, by reason.
	LinesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesledger_sale_lines_skipped_total",
		Help: "Cart lines skipped during sale creation, by outcome.",
	}, []string{"outcome"})

	// ImportRows counts processed import rows, by outcome code.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesledger_import_rows_total",
		Help: "Bulk import rows processed, by outcome.",
	}, []string{"outcome"})
)
