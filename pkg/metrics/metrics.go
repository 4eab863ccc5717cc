package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллектор prometheus-метрик сервиса
// Покрывает HTTP-слой, слой работы с БД и бизнес-события воронки
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpen  *prometheus.GaugeVec
	dbPoolIdle  *prometheus.GaugeVec
	dbPoolInUse *prometheus.GaugeVec

	leadsCapturedTotal        *prometheus.CounterVec
	duplicatesSuppressedTotal *prometheus.CounterVec
	conversionsRecordedTotal  *prometheus.CounterVec
	slotConflictsTotal        *prometheus.CounterVec
}

// New создает и регистрирует коллектор метрик в default registry
func New(serviceName string) *Metrics {
	return &Metrics{
		service: serviceName,

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
		}, []string{"service", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"service"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		}, []string{"service"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		leadsCapturedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_leads_captured_total",
			Help: "Total number of lead capture touches processed",
		}, []string{"service"}),

		duplicatesSuppressedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_duplicates_suppressed_total",
			Help: "Total number of duplicate submissions suppressed",
		}, []string{"service"}),

		conversionsRecordedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_conversions_recorded_total",
			Help: "Total number of lead-to-booking conversions recorded",
		}, []string{"service"}),

		slotConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_slot_conflicts_total",
			Help: "Total number of booking attempts lost to a slot conflict",
		}, []string{"service"}),
	}
}

// IncHTTPRequest увеличивает счетчик HTTP запросов
func (m *Metrics) IncHTTPRequest(method, path string, status int) {
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
}

// ObserveHTTPDuration записывает длительность обработки HTTP запроса
func (m *Metrics) ObserveHTTPDuration(method, path string, duration time.Duration) {
	m.httpRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает результат и длительность запроса к БД
func (m *Metrics) ObserveDBQuery(duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(m.service, status).Inc()
	m.dbQueryDuration.WithLabelValues(m.service).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauges состояния connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(m.service).Set(float64(stats.OpenConnections))
	m.dbPoolIdle.WithLabelValues(m.service).Set(float64(stats.Idle))
	m.dbPoolInUse.WithLabelValues(m.service).Set(float64(stats.InUse))
}

// IncLeadCaptured увеличивает счетчик обработанных касаний лидов
func (m *Metrics) IncLeadCaptured() {
	m.leadsCapturedTotal.WithLabelValues(m.service).Inc()
}

// IncDuplicateSuppressed увеличивает счетчик подавленных дублей
func (m *Metrics) IncDuplicateSuppressed() {
	m.duplicatesSuppressedTotal.WithLabelValues(m.service).Inc()
}

// IncConversionRecorded увеличивает счетчик записанных конверсий
func (m *Metrics) IncConversionRecorded() {
	m.conversionsRecordedTotal.WithLabelValues(m.service).Inc()
}

// IncSlotConflict увеличивает счетчик проигранных гонок за слот
func (m *Metrics) IncSlotConflict() {
	m.slotConflictsTotal.WithLabelValues(m.service).Inc()
}
