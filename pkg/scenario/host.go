package scenario

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/dom"
	"github.com/vango-dev/viewport/pkg/view"
	"github.com/vango-dev/viewport/pkg/viewport"
)

// Host is a host view with one port per PortSpec. Each port is anchored by
// a comment named after it inside a single <div>.
type Host struct {
	scenario  *Scenario
	element   *dom.Node
	view      *view.Static
	injector  *di.Injector
	scope     *di.ElementInjector
	ports     []*viewport.ViewPort
	byName    map[string]*viewport.ViewPort
	templates map[string]*view.ProtoView
	views     map[string]view.View
	logger    *slog.Logger
}

// HostOption configures a Host.
type HostOption func(*hostOptions)

type hostOptions struct {
	logger    *slog.Logger
	observers []viewport.Observer
	injector  *di.Injector
}

// WithLogger sets the logger passed to every port.
func WithLogger(logger *slog.Logger) HostOption {
	return func(o *hostOptions) {
		o.logger = logger
	}
}

// WithObserver adds observers to every port.
func WithObserver(observers ...viewport.Observer) HostOption {
	return func(o *hostOptions) {
		o.observers = append(o.observers, observers...)
	}
}

// WithInjector sets the injector ports are hydrated with.
func WithInjector(injector *di.Injector) HostOption {
	return func(o *hostOptions) {
		o.injector = injector
	}
}

// NewHost builds the host view and its dehydrated ports.
func NewHost(sc *Scenario, opts ...HostOption) (*Host, error) {
	o := hostOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "scenario")
	}
	if o.injector == nil {
		o.injector = di.NewInjector()
	}

	h := &Host{
		scenario:  sc,
		element:   dom.NewElement("div"),
		injector:  o.injector,
		scope:     di.NewElementInjector(nil),
		byName:    make(map[string]*viewport.ViewPort, len(sc.Ports)),
		templates: make(map[string]*view.ProtoView, len(sc.Templates)),
		views:     make(map[string]view.View),
		logger:    o.logger,
	}
	h.view = view.NewStatic(h.element)
	h.scope.Hydrate(h.injector)

	for name, t := range sc.Templates {
		pv, err := t.Compile()
		if err != nil {
			return nil, errors.New("E210").WithDetailf("template %q: %v", name, err)
		}
		h.templates[name] = pv
	}

	for _, ps := range sc.Ports {
		anchor := dom.NewComment(ps.Name)
		if err := h.element.AppendChild(anchor); err != nil {
			return nil, err
		}
		var factory view.Factory
		if ps.Template != "" {
			factory = h.templates[ps.Template]
		}
		vp := viewport.New(h.view, anchor, factory, di.NewElementInjector(h.scope),
			viewport.WithName(ps.Name),
			viewport.WithLogger(o.logger),
			viewport.WithObserver(o.observers...),
		)
		h.ports = append(h.ports, vp)
		h.byName[ps.Name] = vp
	}
	return h, nil
}

// Scenario returns the scenario the host was built from.
func (h *Host) Scenario() *Scenario { return h.scenario }

// Port returns the named port, or nil.
func (h *Host) Port(name string) *viewport.ViewPort { return h.byName[name] }

// Ports returns the ports in declaration order.
func (h *Host) Ports() []*viewport.ViewPort { return slices.Clone(h.ports) }

// HTML returns the inner HTML of the host element.
func (h *Host) HTML() string { return h.element.InnerHTML() }

// Detectors returns the number of detectors attached to the host view.
func (h *Host) Detectors() int { return h.view.ChangeDetector().Len() }

// Apply runs one step. A step with Error set succeeds only if the
// operation fails with that code.
func (h *Host) Apply(s Step) error {
	err := h.apply(s)
	if s.Error != "" {
		got := errors.CodeOf(err)
		if got != s.Error {
			return errors.New("E212").
				WithOp(s.String()).
				WithDetailf("want error %s, got %q", s.Error, got).
				Wrap(err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if s.Expect != nil {
		return h.check(s, s.Expect)
	}
	return nil
}

func (h *Host) apply(s Step) error {
	if err := s.Validate(h.scenario); err != nil {
		return err
	}
	vp := h.byName[s.Port]

	switch s.Op {
	case OpHydrate:
		var ctx any
		if s.Context != nil {
			ctx = s.Context
		}
		return vp.Hydrate(h.injector, ctx)

	case OpDehydrate:
		vp.Dehydrate()
		return nil

	case OpCreate:
		var (
			v   view.View
			err error
		)
		if s.Index != nil {
			v, err = vp.CreateAt(*s.Index)
		} else {
			v, err = vp.Create()
		}
		if err != nil {
			return err
		}
		h.record(s.As, v)
		return nil

	case OpInsert:
		v, err := h.resolve(s)
		if err != nil {
			return err
		}
		if s.Index != nil {
			err = vp.InsertAt(v, *s.Index)
		} else {
			err = vp.Insert(v)
		}
		if err != nil {
			return err
		}
		h.record(s.As, v)
		return nil

	case OpRemove:
		if s.Index != nil {
			return vp.RemoveAt(*s.Index)
		}
		return vp.Remove()

	case OpDetach:
		var (
			v   view.View
			err error
		)
		if s.Index != nil {
			v, err = vp.DetachAt(*s.Index)
		} else {
			v, err = vp.Detach()
		}
		if err != nil {
			return err
		}
		h.record(s.As, v)
		return nil

	case OpMove:
		return vp.Move(s.From, s.To)

	case OpGet:
		if s.Index == nil {
			return errors.New("E210").WithDetail("get: index is required")
		}
		v, err := vp.Get(*s.Index)
		if err != nil {
			return err
		}
		h.record(s.As, v)
		return nil

	case OpDetect:
		cd := h.view.ChangeDetector()
		if s.Context != nil {
			cd.SetContext(s.Context)
		}
		n, err := cd.DetectChanges()
		h.logger.Debug("change detection", "changed", n)
		return err

	case OpExpect:
		return nil
	}
	return errors.New("E211").WithDetailf("%q", s.Op)
}

// resolve returns the view an insert step names.
func (h *Host) resolve(s Step) (view.View, error) {
	if s.Template != "" {
		pv, ok := h.templates[s.Template]
		if !ok {
			return nil, errors.New("E210").WithDetailf("unknown template %q", s.Template)
		}
		return pv.New(h.injector), nil
	}
	v, ok := h.views[s.View]
	if !ok {
		return nil, errors.New("E210").
			WithDetailf("unknown view %q", s.View).
			WithSuggestion("Name views with 'as' on create, insert, detach or get")
	}
	return v, nil
}

func (h *Host) record(name string, v view.View) {
	if name != "" {
		h.views[name] = v
	}
}

func (h *Host) check(s Step, e *Expect) error {
	fail := func(format string, args ...any) error {
		return errors.New("E212").WithOp(s.String()).WithDetailf(format, args...)
	}
	if e.HTML != nil {
		if got := h.HTML(); got != *e.HTML {
			return fail("html = %q, want %q", got, *e.HTML)
		}
	}
	for _, name := range sortedKeys(e.Len) {
		vp := h.byName[name]
		if vp == nil {
			return fail("unknown port %q", name)
		}
		if vp.Len() != e.Len[name] {
			return fail("len(%s) = %d, want %d", name, vp.Len(), e.Len[name])
		}
	}
	for _, name := range sortedKeys(e.Hydrated) {
		vp := h.byName[name]
		if vp == nil {
			return fail("unknown port %q", name)
		}
		if vp.Hydrated() != e.Hydrated[name] {
			return fail("hydrated(%s) = %t, want %t", name, vp.Hydrated(), e.Hydrated[name])
		}
	}
	if e.Detectors != nil && h.Detectors() != *e.Detectors {
		return fail("detectors = %d, want %d", h.Detectors(), *e.Detectors)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PortState is a snapshot of one port.
type PortState struct {
	Name     string   `json:"name"`
	Hydrated bool     `json:"hydrated"`
	Len      int      `json:"len"`
	Views    []string `json:"views"`
}

// Snapshot is the observable state of a host.
type Snapshot struct {
	Scenario  string      `json:"scenario"`
	HTML      string      `json:"html"`
	Detectors int         `json:"detectors"`
	Ports     []PortState `json:"ports"`
}

// Snapshot captures the host state.
func (h *Host) Snapshot() Snapshot {
	snap := Snapshot{
		Scenario:  h.scenario.Name,
		HTML:      h.HTML(),
		Detectors: h.Detectors(),
		Ports:     make([]PortState, 0, len(h.ports)),
	}
	for _, vp := range h.ports {
		ps := PortState{
			Name:     vp.Name(),
			Hydrated: vp.Hydrated(),
			Len:      vp.Len(),
			Views:    make([]string, 0, vp.Len()),
		}
		for _, v := range vp.Views() {
			ps.Views = append(ps.Views, v.ID())
		}
		snap.Ports = append(snap.Ports, ps)
	}
	return snap
}

// String renders a short summary.
func (s Snapshot) String() string {
	out := s.Scenario
	for _, p := range s.Ports {
		out += fmt.Sprintf(" %s[%d]", p.Name, p.Len)
	}
	return out
}
