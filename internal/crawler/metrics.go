package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal tracks HTTP request attempts, retries included.
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_requests_total",
		Help: "The total number of HTTP request attempts sent.",
	})
	// retriesTotal tracks failed attempts that triggered a retry or gave up.
	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_request_retries_total",
		Help: "The total number of failed HTTP request attempts.",
	})
	// fetchFailuresTotal tracks URLs abandoned after retry exhaustion.
	fetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_fetch_failures_total",
		Help: "The total number of URLs given up on after all retries.",
	})
	// fixturesInsertedTotal tracks genuinely new fixtures persisted.
	fixturesInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_inserted_total",
		Help: "The total number of new fixture rows inserted.",
	})
	// fixturesDuplicateTotal tracks fixtures already present on re-crawl.
	fixturesDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_duplicates_total",
		Help: "The total number of fixtures skipped as already stored.",
	})
	// rowsSkippedTotal tracks malformed fixture rows dropped during parsing.
	rowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_rows_skipped_total",
		Help: "The total number of malformed fixture rows skipped.",
	})
)
