package scenario

import (
	"context"
	"time"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int           `json:"index"`
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	Scenario string       `json:"scenario"`
	Steps    []StepResult `json:"steps"`
	Final    Snapshot     `json:"final"`
	Passed   bool         `json:"passed"`
}

// Run replays sc against a fresh host and stops at the first failing
// step. The returned error is that step's error; the Result is always
// non-nil once the host is built.
func Run(ctx context.Context, sc *Scenario, opts ...HostOption) (*Result, error) {
	h, err := NewHost(sc, opts...)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx)
}

// Run replays the host's scenario steps.
func (h *Host) Run(ctx context.Context) (*Result, error) {
	res := &Result{Scenario: h.scenario.Name, Passed: true}
	var runErr error
	for i, s := range h.scenario.Steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		start := time.Now()
		err := h.Apply(s)
		sr := StepResult{Index: i, Step: s.String(), Duration: time.Since(start)}
		if err != nil {
			sr.Err = err.Error()
			runErr = err
		}
		res.Steps = append(res.Steps, sr)
		h.logger.Debug("scenario step", "index", i, "step", sr.Step, "err", err)
		if runErr != nil {
			break
		}
	}
	res.Passed = runErr == nil
	res.Final = h.Snapshot()
	return res, runErr
}
