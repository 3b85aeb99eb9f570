package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultOK 成功的 result label
const ResultOK = "ok"

// Collector 收集對外操作的次數與耗時
//
// 每個 Collector 擁有自己的 Registry，測試時可以各自建立互不干擾。
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector 建立 Collector 並註冊 Go runtime 與 process 指標
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		operations: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "remittance_operations_total",
			Help: "Total number of handled operations by result",
		}, []string{"operation", "result"}),
		duration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remittance_operation_duration_seconds",
			Help:    "Time taken to handle an operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// Observe 記錄一次操作，result 為 ResultOK 或錯誤碼
func (c *Collector) Observe(operation, result string, duration time.Duration) {
	c.operations.WithLabelValues(operation, result).Inc()
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler 回傳 /metrics 的 http.Handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry 回傳底層 Registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
