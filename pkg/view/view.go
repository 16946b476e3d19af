package view

import (
	"github.com/google/uuid"

	"github.com/vango-dev/viewport/pkg/change"
	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/dom"
)

// Hydrator is the hydration capability of a view.
type Hydrator interface {
	// Hydrated reports whether the view's bindings are live.
	Hydrated() bool

	// Hydrate activates the view against injector. parent is the element
	// scope its root injectors are linked beneath and parentDetector the
	// detector its own detector is attached to. Hydrating a hydrated view
	// leaves it hydrated.
	Hydrate(injector *di.Injector, parent *di.ElementInjector, parentDetector *change.Detector)

	// Dehydrate deactivates the view.
	Dehydrate()
}

// View is an instantiated, renderable unit.
type View interface {
	Hydrator

	// ID uniquely identifies the view instance.
	ID() string

	// Nodes returns the view's top-level rendered nodes in order.
	Nodes() []*dom.Node

	// ChangeDetector returns the detector owned by the view.
	ChangeDetector() *change.Detector

	// RootElementInjectors returns the roots of the view's element scope
	// tree, in document order.
	RootElementInjectors() []*di.ElementInjector
}

// Factory creates views. ProtoView is the standard implementation.
type Factory interface {
	Instantiate(injector *di.Injector) View
}

// Static is a plain view over pre-rendered nodes. It is always hydrated.
type Static struct {
	id       string
	nodes    []*dom.Node
	detector *change.Detector
}

// NewStatic wraps nodes in a view with its own empty change detector.
func NewStatic(nodes ...*dom.Node) *Static {
	return &Static{
		id:       uuid.NewString(),
		nodes:    nodes,
		detector: change.New(),
	}
}

// ID implements View.
func (s *Static) ID() string { return s.id }

// Nodes implements View.
func (s *Static) Nodes() []*dom.Node { return s.nodes }

// ChangeDetector implements View.
func (s *Static) ChangeDetector() *change.Detector { return s.detector }

// RootElementInjectors implements View. Static views have none.
func (s *Static) RootElementInjectors() []*di.ElementInjector { return nil }

// Hydrated implements Hydrator. Static views are always hydrated.
func (s *Static) Hydrated() bool { return true }

// Hydrate implements Hydrator.
func (s *Static) Hydrate(*di.Injector, *di.ElementInjector, *change.Detector) {}

// Dehydrate implements Hydrator.
func (s *Static) Dehydrate() {}
