// Package metrics defines the Prometheus collectors for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route pattern and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billsplit_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes HTTP request latency per route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billsplit_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// BillsCreated counts successfully created bills.
	BillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_bills_created_total",
		Help: "Total bills created.",
	})

	// PaymentsRecorded counts recorded payments by type (BILL or SETTLEMENT).
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billsplit_payments_recorded_total",
		Help: "Total payments recorded.",
	}, []string{"type"})

	// OwedRecalcRetries counts compare-and-swap retries during owed
	// recomputation. A climbing rate means heavy contention on single
	// participants.
	OwedRecalcRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_owed_recalc_retries_total",
		Help: "Total optimistic-lock retries while recomputing owed amounts.",
	})

	// PaidCacheHits counts paid-amount reads served from the cache.
	PaidCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_paid_cache_hits_total",
		Help: "Total paid-amount cache hits.",
	})

	// PaidCacheMisses counts paid-amount reads that fell back to the
	// aggregation query.
	PaidCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_paid_cache_misses_total",
		Help: "Total paid-amount cache misses.",
	})
)
