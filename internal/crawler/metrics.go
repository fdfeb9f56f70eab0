package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetricRequests tracks the number of HTTP requests dispatched.
	MetricRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_requests_total",
		Help: "The total number of HTTP requests sent.",
	})
	// MetricRetries tracks retried fetch attempts.
	MetricRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_fetch_retries_total",
		Help: "The total number of fetch attempts that were retried.",
	})
	// MetricFetchErrors tracks fetches that failed after all retries.
	MetricFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_fetch_errors_total",
		Help: "The total number of fetches that exhausted their retries.",
	})
	// MetricRecords tracks persisted Records, success and failure alike.
	MetricRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_records_total",
		Help: "The total number of records persisted.",
	})
	// MetricPDFExtractions tracks successful PDF text extractions.
	MetricPDFExtractions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_pdf_extractions_total",
		Help: "The total number of PDF payloads whose text was extracted.",
	})
	// MetricPersistErrors tracks record sink write failures.
	MetricPersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexharvest_persist_errors_total",
		Help: "The total number of record persistence failures.",
	})
)
