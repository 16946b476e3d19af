package viewport

import (
	"log/slog"
	"time"
)

// Op names a port operation.
type Op string

const (
	OpHydrate   Op = "hydrate"
	OpDehydrate Op = "dehydrate"
	OpCreate    Op = "create"
	OpInsert    Op = "insert"
	OpRemove    Op = "remove"
	OpDetach    Op = "detach"
	OpMove      Op = "move"
)

// Event describes one completed port operation.
type Event struct {
	// Port is the port name (see WithName).
	Port string

	// Op is the operation.
	Op Op

	// Index is the list position the operation targeted, or -1.
	Index int

	// Len is the number of attached views after the operation.
	Len int

	// ViewID identifies the view inserted or dropped, if any.
	ViewID string

	// Duration is how long the operation took.
	Duration time.Duration

	// Err is the error returned to the caller, if any.
	Err error
}

// Observer receives an Event for every mutating operation and hydration
// transition. Observers run synchronously and must not call back into the port.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// Option configures a ViewPort.
type Option func(*ViewPort)

// WithName sets the name used in logs, events and metrics.
func WithName(name string) Option {
	return func(vp *ViewPort) {
		vp.name = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(vp *ViewPort) {
		if logger != nil {
			vp.logger = logger
		}
	}
}

// WithObserver adds observers.
func WithObserver(observers ...Observer) Option {
	return func(vp *ViewPort) {
		for _, o := range observers {
			if o != nil {
				vp.observers = append(vp.observers, o)
			}
		}
	}
}
