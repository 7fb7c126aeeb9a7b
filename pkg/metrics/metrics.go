package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge
	TransactionsTotal  *prometheus.CounterVec

	OrdersCreatedTotal      prometheus.Counter
	OrdersSlotFullTotal     prometheus.Counter
	OrdersRejectedTotal     prometheus.Counter
	TimeSlotsGeneratedTotal prometheus.Counter
	WeekConfigurationsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в стандартном регистре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном регистре (в тестах - prometheus.NewRegistry())
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Database transactions by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		OrdersCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "orders_created_total",
			Help:        "Orders admitted into a time slot",
			ConstLabels: labels,
		}),
		OrdersSlotFullTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "orders_slot_full_total",
			Help:        "Order creations refused because the slot was full",
			ConstLabels: labels,
		}),
		OrdersRejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "orders_rejected_total",
			Help:        "Orders rejected by week reconfiguration",
			ConstLabels: labels,
		}),
		TimeSlotsGeneratedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "time_slots_generated_total",
			Help:        "Time slots generated",
			ConstLabels: labels,
		}),
		WeekConfigurationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "week_configurations_total",
			Help:        "Week configuration runs by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.TransactionsTotal,
		m.OrdersCreatedTotal,
		m.OrdersSlotFullTotal,
		m.OrdersRejectedTotal,
		m.TimeSlotsGeneratedTotal,
		m.WeekConfigurationsTotal,
	)

	return m
}

// Методы ниже безопасны для nil-получателя: сервис может работать с выключенными метриками

// OrderCreated увеличивает счетчик созданных заказов
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.Inc()
}

// SlotFull увеличивает счетчик отказов по вместимости
func (m *Metrics) SlotFull() {
	if m == nil {
		return
	}
	m.OrdersSlotFullTotal.Inc()
}

// OrdersRejected добавляет количество отклоненных при реконфигурации заказов
func (m *Metrics) OrdersRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OrdersRejectedTotal.Add(float64(n))
}

// SlotsGenerated добавляет количество сгенерированных слотов
func (m *Metrics) SlotsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TimeSlotsGeneratedTotal.Add(float64(n))
}

// WeekConfigured фиксирует результат сохранения недели ("ok" или "error")
func (m *Metrics) WeekConfigured(outcome string) {
	if m == nil {
		return
	}
	m.WeekConfigurationsTotal.WithLabelValues(outcome).Inc()
}
