package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_finder"

// Metrics 服務指標，使用獨立 registry 避免測試之間互相污染
type Metrics struct {
	registry *prometheus.Registry

	searchesTotal     *prometheus.CounterVec
	searchDuration    *prometheus.HistogramVec
	governorDecisions *prometheus.CounterVec
	fallbackRaces     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

// New 創建並註冊所有指標
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "requests_total",
				Help:      "Searches by mode, result source label and outcome",
			},
			[]string{"mode", "source", "outcome"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "duration_seconds",
				Help:      "End-to-end search latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 4.5, 7.5, 12, 20},
			},
			[]string{"mode"},
		),
		governorDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ai_governor",
				Name:      "decisions_total",
				Help:      "AI invocation decisions (cached, cooldown, invoked, disabled, cancelled)",
			},
			[]string{"decision"},
		),
		fallbackRaces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "fallback_races_total",
				Help:      "Extended AI waits and whether the late answer was recovered",
			},
			[]string{"recovered"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searchesTotal,
		m.searchDuration,
		m.governorDecisions,
		m.fallbackRaces,
		m.httpRequests,
	)
	return m
}

// ObserveSearch 記錄一次搜尋
func (m *Metrics) ObserveSearch(mode, source string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.searchesTotal.WithLabelValues(mode, source, outcome).Inc()
	m.searchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveFallback 記錄延長等待的結果
func (m *Metrics) ObserveFallback(recovered bool) {
	label := "false"
	if recovered {
		label = "true"
	}
	m.fallbackRaces.WithLabelValues(label).Inc()
}

// ObserveGovernorDecision 記錄 AI 呼叫判斷
func (m *Metrics) ObserveGovernorDecision(decision string) {
	m.governorDecisions.WithLabelValues(decision).Inc()
}

// ObserveHTTP 記錄 HTTP 請求
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Registry 底層 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
