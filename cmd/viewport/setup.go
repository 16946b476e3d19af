package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/viewport/internal/config"
	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/internal/logging"
	"github.com/vango-dev/viewport/pkg/metrics"
	"github.com/vango-dev/viewport/pkg/scenario"
	"github.com/vango-dev/viewport/pkg/tracing"
)

// env is the wiring shared by run and serve.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   *tracing.Provider
	hostOpts []scenario.HostOption
}

func setup(flags *globalFlags, traceOut io.Writer) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.New("E122").Wrap(err)
	}
	logger := logging.New(level, cfg.Log.Format)

	e := &env{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		hostOpts: []scenario.HostOption{scenario.WithLogger(logger.With("component", "viewport"))},
	}

	if cfg.Metrics.Enabled {
		c := metrics.New(
			metrics.WithRegistry(e.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
		e.hostOpts = append(e.hostOpts, scenario.WithObserver(c))
	}

	e.tracer, err = tracing.NewProvider(cfg.Tracing, traceOut)
	if err != nil {
		return nil, errors.New("E122").WithDetail("tracing: " + err.Error())
	}
	if e.tracer.Enabled() {
		e.hostOpts = append(e.hostOpts, scenario.WithObserver(tracing.NewObserver(context.Background(), e.tracer.Tracer())))
	}

	logger.Debug("configuration loaded", "path", cfg.Path(), "metrics", cfg.Metrics.Enabled, "tracing", cfg.Tracing.Enabled)
	return e, nil
}

func (e *env) close(ctx context.Context) {
	if err := e.tracer.Shutdown(ctx); err != nil {
		e.logger.Warn("tracer shutdown", "error", err)
	}
}
