package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every custom metric this service exports, registered once
// at startup and scraped at GET /metrics.
type Registry struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
	LLMCalls          *prometheus.CounterVec
	LLMLatency        *prometheus.HistogramVec
	InsufficientStock *prometheus.CounterVec
}

// NewRegistry builds and registers this service's default metrics.
func NewRegistry() *Registry {
	reg := &Registry{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests served",
		}, []string{"method", "path", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		LLMCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "LLM collaborator calls, by task and outcome",
		}, []string{"task", "outcome"}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "LLM collaborator call duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"task"}),
		InsufficientStock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dish_sale_insufficient_stock_total",
			Help: "Dish sale attempts aborted for insufficient inventory",
		}, []string{"tenant_id"}),
	}

	prometheus.MustRegister(reg.HTTPRequests, reg.HTTPLatency, reg.LLMCalls, reg.LLMLatency, reg.InsufficientStock)

	return reg
}
