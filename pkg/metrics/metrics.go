// Package metrics Prometheus指标
//
// 指标分三组：
//   - HTTP：请求数、耗时、并发数（由middleware.Metrics采集）
//   - 订单：创建数、状态流转、各操作结果与耗时（由purchase.Manager采集）
//   - 依赖：游戏目录缓存命中情况、熔断器状态
//
// 通过GET /metrics暴露，InitMetrics在main中调用一次。
// 未初始化时Record*系列函数静默跳过，单元测试不必关心指标。
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

var (
	once        sync.Once
	initialized bool

	// ========== HTTP指标 ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 订单指标 ==========

	// PurchasesCreatedTotal 创建的订单数
	PurchasesCreatedTotal prometheus.Counter

	// PurchaseTransitionsTotal 状态流转次数，标签：目标状态
	PurchaseTransitionsTotal *prometheus.CounterVec

	// PurchaseOperationsTotal 订单操作次数，标签：操作名、结果（success或错误种类）
	PurchaseOperationsTotal *prometheus.CounterVec

	PurchaseOperationDuration *prometheus.HistogramVec

	// ========== 依赖指标 ==========

	// CatalogCacheRequests 游戏目录缓存，标签：hit/miss/error/bypass
	CatalogCacheRequests *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 标签：熔断器名称、结果（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry（可重复调用）
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		PurchasesCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "purchases_created_total",
				Help: "订单创建总数",
			},
		)

		PurchaseTransitionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_status_transitions_total",
				Help: "订单状态流转次数",
			},
			[]string{"to"},
		)

		PurchaseOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_operations_total",
				Help: "订单操作次数",
			},
			[]string{"operation", "result"},
		)

		PurchaseOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "purchase_operation_duration_seconds",
				Help:    "订单操作耗时（秒，包含事务）",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		)

		CatalogCacheRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_requests_total",
				Help: "游戏目录缓存请求数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		initialized = true
	})
}

// ObservePurchaseOperation 记录一次订单操作的结果和耗时
func ObservePurchaseOperation(operation string, start time.Time, err error) {
	if !initialized {
		return
	}
	result := "success"
	if err != nil {
		result = apperrors.GetAppError(err).Kind().String()
	}
	PurchaseOperationsTotal.WithLabelValues(operation, result).Inc()
	PurchaseOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordPurchaseCreated 订单创建成功
func RecordPurchaseCreated() {
	if !initialized {
		return
	}
	PurchasesCreatedTotal.Inc()
}

// RecordPurchaseTransition 订单状态流转成功
func RecordPurchaseTransition(to string) {
	if !initialized {
		return
	}
	PurchaseTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordCatalogCache 游戏目录缓存结果
func RecordCatalogCache(result string) {
	if !initialized {
		return
	}
	CatalogCacheRequests.WithLabelValues(result).Inc()
}

// RecordCircuitBreaker 熔断器请求结果
func RecordCircuitBreaker(name, result string) {
	if !initialized {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetCircuitBreakerState 熔断器状态变化
func SetCircuitBreakerState(name string, state int) {
	if !initialized {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// ========== 通用辅助函数 ==========

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
