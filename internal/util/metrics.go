package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DraftsOpenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_drafts_opened_total",
		Help: "Total number of order drafts opened",
	}, []string{"kind"})

	DraftsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_drafts_expired_total",
		Help: "Total number of idle order drafts evicted",
	})

	DraftMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_draft_mutations_total",
		Help: "Total number of draft mutations by operation",
	}, []string{"op"})

	DraftMutationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_draft_mutations_rejected_total",
		Help: "Total number of draft mutations rejected by validation",
	}, []string{"op", "reason"})

	OrdersSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders submitted",
	}, []string{"kind"})

	OrdersSubmitFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submit_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Total number of catalog loads by source",
	}, []string{"source"})

	CatalogLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_load_failures_total",
		Help: "Total number of failed catalog loads",
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of stock adjustments applied by the worker",
	}, []string{"kind"})

	SubmitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_submit_latency_seconds",
		Help:    "Latency of order submission",
		Buckets: prometheus.DefBuckets,
	})

	ReportBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_build_latency_seconds",
		Help:    "Latency of XLSX report generation",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
