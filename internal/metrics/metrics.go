// Package metrics exposes Prometheus counters for answer writes, completions,
// results cache lookups and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fieldsurvey"

// Collector owns a private registry rather than the global default.
type Collector struct {
	registry *prometheus.Registry

	ResponsesSaved      *prometheus.CounterVec
	SessionCompletions  *prometheus.CounterVec
	ResultsCacheLookups *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		ResponsesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_saved_total",
			Help:      "Answer upserts by survey and outcome",
		}, []string{"survey_id", "result"}),
		SessionCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_completions_total",
			Help:      "Completion attempts by survey and outcome",
		}, []string{"survey_id", "result"}),
		ResultsCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_cache_lookups_total",
			Help:      "Results cache lookups by outcome",
		}, []string{"result"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		c.ResponsesSaved,
		c.SessionCompletions,
		c.ResultsCacheLookups,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ResponseSaved(surveyID, result string) {
	c.ResponsesSaved.WithLabelValues(surveyID, result).Inc()
}

func (c *Collector) SessionCompleted(surveyID, result string) {
	c.SessionCompletions.WithLabelValues(surveyID, result).Inc()
}

func (c *Collector) CacheLookup(hit bool) {
	if hit {
		c.ResultsCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	c.ResultsCacheLookups.WithLabelValues("miss").Inc()
}

// GinMiddleware records request counts and latency keyed by the matched route template.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
