package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/inspector"
	"github.com/vango-dev/viewport/pkg/scenario"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port   int
		host   string
		replay bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Serve the inspector for a scenario host",
		Long: `Build the scenario's host view and serve the inspector API.

Routes:
  GET  /api/state   current snapshot
  POST /api/steps   apply a step
  POST /api/run     replay the scenario
  POST /api/reset   rebuild the host
  GET  /preview     host HTML
  GET  /ws          snapshot stream
  GET  /metrics     Prometheus metrics

Examples:
  viewport serve list.yaml
  viewport serve list.yaml --port=8080 --run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, args[0], port, host, replay)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&replay, "run", false, "Replay the scenario before serving")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, path string, port int, host string, replay bool) error {
	out := cmd.OutOrStdout()

	e, err := setup(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close(context.Background())

	if port > 0 {
		e.cfg.Inspector.Port = port
	}
	if host != "" {
		e.cfg.Inspector.Host = host
	}

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	opts := []inspector.Option{
		inspector.WithLogger(e.logger.With("component", "inspector")),
		inspector.WithHostOptions(e.hostOpts...),
	}
	if e.cfg.Metrics.Enabled {
		opts = append(opts, inspector.WithGatherer(e.registry))
	}
	insp, err := inspector.New(sc, opts...)
	if err != nil {
		return err
	}
	defer insp.Close()

	if replay {
		for i, s := range sc.Steps {
			if _, err := insp.Apply(s); err != nil {
				return errors.FromError(err, "E140").WithOp("step " + s.String()).WithDetailf("step %d failed", i)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              e.cfg.Inspector.Addr(),
		Handler:           insp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go insp.Push(ctx, e.cfg.Inspector.PushInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	success(out, "Inspector on http://%s", srv.Addr)
	info(out, "%s", insp.Snapshot())

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E140").WithDetail("listen " + srv.Addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("E140").Wrap(err)
	}
	return nil
}
