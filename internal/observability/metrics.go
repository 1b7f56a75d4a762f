package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	ledgerTransactions *prometheus.CounterVec
	stockMovements     *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_grpc_requests_total",
		Help: "gRPC requests by method and status code.",
	}, []string{"method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_grpc_request_duration_seconds",
		Help:    "gRPC request latency by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_total",
		Help: "Ledger transaction operations by operation, type and outcome.",
	}, []string{"operation", "type", "outcome"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_stock_units_total",
		Help: "Stock units moved by direction.",
	}, []string{"direction"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_cashflow_cache_lookups_total",
		Help: "Cash-flow cache lookups by result.",
	}, []string{"result"})
	registry.MustRegister(requests, duration, transactions, movements, lookups)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:      requests,
		requestDuration:    duration,
		ledgerTransactions: transactions,
		stockMovements:     movements,
		cacheLookups:       lookups,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// All recorders are no-ops on a nil receiver.

func (m *Metrics) ObserveRequest(method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, code).Inc()
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTransaction(operation, txType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ledgerTransactions.WithLabelValues(operation, txType, outcome).Inc()
}

func (m *Metrics) AddStockMovement(direction string, units int) {
	if m == nil || units <= 0 {
		return
	}
	m.stockMovements.WithLabelValues(direction).Add(float64(units))
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
