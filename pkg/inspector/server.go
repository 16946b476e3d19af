// Package inspector serves a scenario host over HTTP so its ports can be
// driven and watched while it runs.
//
// Routes:
//
//	GET  /api/state  current snapshot
//	POST /api/steps  apply one step (JSON scenario.Step)
//	POST /api/run    rebuild the host and replay the scenario
//	POST /api/reset  rebuild the host without running steps
//	GET  /preview    host element inner HTML
//	GET  /ws         snapshot stream
//	GET  /metrics    Prometheus metrics, when a gatherer is configured
package inspector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/scenario"
)

// Server owns a scenario host and serializes every access to it.
type Server struct {
	mu       sync.Mutex
	scenario *scenario.Scenario
	host     *scenario.Host
	hostOpts []scenario.HostOption

	hub      *Hub
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes metrics from g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHostOptions sets the options every host is built with.
func WithHostOptions(opts ...scenario.HostOption) Option {
	return func(s *Server) {
		s.hostOpts = append(s.hostOpts, opts...)
	}
}

// New builds a dehydrated host for sc and the routes that drive it.
func New(sc *scenario.Scenario, opts ...Option) (*Server, error) {
	s := &Server{scenario: sc, hub: NewHub()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "inspector")
	}

	host, err := scenario.NewHost(sc, s.hostOpts...)
	if err != nil {
		return nil, err
	}
	s.host = host

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/steps", s.handleStep)
		r.Post("/run", s.handleRun)
		r.Post("/reset", s.handleReset)
	})
	r.Get("/preview", s.handlePreview)
	r.Get("/ws", s.handleWS)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Snapshot returns the current host state.
func (s *Server) Snapshot() scenario.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host.Snapshot()
}

// Apply runs one step against the host and notifies websocket clients.
func (s *Server) Apply(step scenario.Step) (scenario.Snapshot, error) {
	snap, err := s.apply(step)
	msg := Message{Type: MessageStep, Step: &step, Snapshot: &snap}
	if err != nil {
		msg.Error = err.Error()
	}
	s.hub.Broadcast(msg)
	return snap, err
}

func (s *Server) apply(step scenario.Step) (scenario.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.host.Apply(step)
	return s.host.Snapshot(), err
}

// Push broadcasts a snapshot every interval until ctx is done.
func (s *Server) Push(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.ClientCount() == 0 {
				continue
			}
			snap := s.Snapshot()
			s.hub.Broadcast(Message{Type: MessageSnapshot, Snapshot: &snap})
		}
	}
}

// Close disconnects websocket clients.
func (s *Server) Close() { s.hub.Close() }

// reset rebuilds the host. The caller holds s.mu.
func (s *Server) reset() (*scenario.Host, error) {
	host, err := scenario.NewHost(s.scenario, s.hostOpts...)
	if err != nil {
		return nil, err
	}
	s.host = host
	return host, nil
}

// run rebuilds the host and replays the scenario. The Result is nil when
// the host could not be built.
func (s *Server) run(ctx context.Context) (*scenario.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	host, err := s.reset()
	if err != nil {
		return nil, err
	}
	return host.Run(ctx)
}

func (s *Server) resetSnapshot() (scenario.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	host, err := s.reset()
	if err != nil {
		return scenario.Snapshot{}, err
	}
	return host.Snapshot(), nil
}

func (s *Server) html() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host.HTML()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var step scenario.Step
	if err := json.NewDecoder(r.Body).Decode(&step); err != nil {
		s.writeError(w, errors.New("E210").WithDetail("Invalid step: "+err.Error()))
		return
	}
	if err := step.Validate(s.scenario); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.Apply(step)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	res, runErr := s.run(r.Context())
	if res == nil {
		s.writeError(w, runErr)
		return
	}

	s.hub.Broadcast(Message{Type: MessageSnapshot, Snapshot: &res.Final})
	status := http.StatusOK
	if runErr != nil {
		s.logger.Info("scenario failed", "scenario", res.Scenario, "err", runErr)
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.resetSnapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.hub.Broadcast(Message{Type: MessageSnapshot, Snapshot: &snap})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	html := s.html()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	s.hub.Serve(w, r, Message{Type: MessageSnapshot, Snapshot: &snap})
}

// writeError maps structured errors to a status and JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := errors.FromError(err, "E140")
	status := http.StatusInternalServerError
	switch e.Category {
	case errors.CategoryStructure, errors.CategoryHydration:
		status = http.StatusConflict
	case errors.CategoryScenario:
		status = http.StatusBadRequest
		if e.Code == "E212" {
			status = http.StatusUnprocessableEntity
		}
	}
	s.logger.Debug("request failed", "status", status, "err", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(e.FormatJSON()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
