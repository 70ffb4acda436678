// Package metrics holds the Prometheus collectors for the site.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "designfolio"

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Likes           *prometheus.CounterVec
	GalleryMoves    *prometheus.CounterVec
	Degraded        prometheus.Gauge
	ContactMessages *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Likes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "likes_total",
				Help:      "Likes recorded per project",
			},
			[]string{"project"},
		),
		GalleryMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gallery_moves_total",
				Help:      "Gallery transitions by kind",
			},
			[]string{"move"},
		),
		Degraded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_degraded",
				Help:      "1 when like storage has fallen back to memory",
			},
		),
		ContactMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_messages_total",
				Help:      "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Likes,
		c.GalleryMoves,
		c.Degraded,
		c.ContactMessages,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// LikeRecorded implements likes.Observer.
func (c *Collector) LikeRecorded(itemID int) {
	c.Likes.WithLabelValues(strconv.Itoa(itemID)).Inc()
}

// StorageDegraded implements likes.Observer.
func (c *Collector) StorageDegraded() {
	c.Degraded.Set(1)
}

func (c *Collector) GalleryMove(move string) {
	c.GalleryMoves.WithLabelValues(move).Inc()
}

// TrackSessions exports n as the live session gauge. Call it once.
func (c *Collector) TrackSessions(n func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live visitor sessions",
		},
		func() float64 { return float64(n()) },
	))
}

func (c *Collector) ContactMessage(outcome string) {
	c.ContactMessages.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern, so slugs do not explode label cardinality.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
