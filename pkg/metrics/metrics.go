package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConns  *prometheus.GaugeVec
	dbPoolInUseConns *prometheus.GaugeVec
	dbPoolIdleConns  *prometheus.GaugeVec

	allocationRunsTotal     *prometheus.CounterVec
	allocationRunDuration   *prometheus.HistogramVec
	allocationMembersTotal  *prometheus.CounterVec
	allocationRetriesTotal  *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		dbPoolOpenConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolInUseConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		dbPoolIdleConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		}, []string{"service"}),

		allocationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Total number of fairness allocation runs by result",
		}, []string{"service", "result"}),

		allocationRunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "allocation_run_duration_seconds",
			Help:    "Fairness allocation run duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"service"}),

		allocationMembersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_members_total",
			Help: "Members processed by fairness allocation, by outcome",
		}, []string{"service", "outcome"}),

		allocationRetriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_retries_total",
			Help: "Total number of allocation solver retries",
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest фиксирует выполненный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(service, method, path, status string, seconds float64) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(seconds)
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(service, operation string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(service, operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(seconds)
}

// SetDBPoolStats обновляет gauges состояния connection pool
func (m *Metrics) SetDBPoolStats(service string, open, inUse, idle int) {
	m.dbPoolOpenConns.WithLabelValues(service).Set(float64(open))
	m.dbPoolInUseConns.WithLabelValues(service).Set(float64(inUse))
	m.dbPoolIdleConns.WithLabelValues(service).Set(float64(idle))
}

// IncAllocationRun фиксирует завершение прогона аллокации (result: allocated/failed/retried)
func (m *Metrics) IncAllocationRun(service, result string) {
	m.allocationRunsTotal.WithLabelValues(service, result).Inc()
}

// ObserveAllocationDuration фиксирует длительность прогона аллокации
func (m *Metrics) ObserveAllocationDuration(service string, seconds float64) {
	m.allocationRunDuration.WithLabelValues(service).Observe(seconds)
}

// AddAllocationOutcome фиксирует количество участников по исходу (assigned/unassigned)
func (m *Metrics) AddAllocationOutcome(service, outcome string, n int) {
	m.allocationMembersTotal.WithLabelValues(service, outcome).Add(float64(n))
}

// IncAllocationRetry фиксирует повтор прогона солвера
func (m *Metrics) IncAllocationRetry(service string) {
	m.allocationRetriesTotal.WithLabelValues(service).Inc()
}
