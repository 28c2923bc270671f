package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "store_documents_written_total", Help: "Documents inserted by collection."},
		[]string{"collection"},
	)
	DocumentsRead = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "store_documents_read_total", Help: "Documents returned by collection."},
		[]string{"collection"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "store_errors_total", Help: "Store failures by operation (insert, find, unavailable)."},
		[]string{"operation"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "eclat", Name: "cache_lookups_total", Help: "Content cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsWritten)
	reg.MustRegister(DocumentsRead)
	reg.MustRegister(StoreErrors)
	reg.MustRegister(CacheLookups)
}
