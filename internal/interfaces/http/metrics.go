package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "resident"

// Collector is a prometheus.Collector for the HTTP API and the chat widget.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	chatInFlight prometheus.GaugeFunc
	chatVisitors prometheus.GaugeFunc
}

// NewMetricsCollector builds the collector. The gauge callbacks report the
// number of chat turns running and of rate-limited visitors being tracked.
func NewMetricsCollector(chatInFlight, chatVisitors func() int) *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			}, []string{"route", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			}, []string{"route", "status"},
		),
		chatInFlight: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "chat_turns_in_flight",
				Help:      "Chat widget turns currently waiting for the AI gateway.",
			}, gaugeValue(chatInFlight),
		),
		chatVisitors: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "chat_visitors_tracked",
				Help:      "Chat widget visitors with a live rate limit bucket.",
			}, gaugeValue(chatVisitors),
		),
	}
}

func gaugeValue(f func() int) func() float64 {
	return func() float64 {
		if f == nil {
			return 0
		}
		return float64(f())
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.latency.Describe(ch)
	c.chatInFlight.Describe(ch)
	c.chatVisitors.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.latency.Collect(ch)
	c.chatInFlight.Collect(ch)
	c.chatVisitors.Collect(ch)
}

// Middleware records every request under its route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		c.requests.WithLabelValues(route, ctx.Request.Method, status).Inc()
		c.latency.WithLabelValues(route, status).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the registry in the Prometheus text format.
func MetricsHandler(reg *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
