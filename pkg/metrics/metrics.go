// Package metrics exports view port activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/viewport"
)

// Config configures the Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "viewport").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "viewport",
		// Port operations are in-memory edits; most finish well under a millisecond.
		Buckets:  []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Collector is a viewport.Observer that records one sample per operation.
//
// Metrics collected:
//   - viewport_ops_total: Counter of operations by port, op and status
//   - viewport_op_errors_total: Counter of failed operations by port, op and error code
//   - viewport_op_duration_seconds: Histogram of operation duration by op
//   - viewport_views: Gauge of attached views by port
type Collector struct {
	opsTotal   *prometheus.CounterVec
	opErrors   *prometheus.CounterVec
	opDuration *prometheus.HistogramVec
	views      *prometheus.GaugeVec
}

// New registers the metrics and returns a Collector. Registering twice on
// the same registry panics, as with promauto.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of view port operations",
			ConstLabels: config.ConstLabels,
		}, []string{"port", "op", "status"}),

		opErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_errors_total",
			Help:        "Total number of failed view port operations",
			ConstLabels: config.ConstLabels,
		}, []string{"port", "op", "code"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "View port operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		views: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "views",
			Help:        "Number of views attached to a port",
			ConstLabels: config.ConstLabels,
		}, []string{"port"}),
	}
}

// Observe implements viewport.Observer.
func (c *Collector) Observe(e viewport.Event) {
	port := e.Port
	if port == "" {
		port = "default"
	}
	op := string(e.Op)

	c.opDuration.WithLabelValues(op).Observe(e.Duration.Seconds())
	if e.Err != nil {
		code := errors.CodeOf(e.Err)
		if code == "" {
			code = "unknown"
		}
		c.opErrors.WithLabelValues(port, op, code).Inc()
		c.opsTotal.WithLabelValues(port, op, "error").Inc()
		return
	}
	c.opsTotal.WithLabelValues(port, op, "success").Inc()
	c.views.WithLabelValues(port).Set(float64(e.Len))
}
