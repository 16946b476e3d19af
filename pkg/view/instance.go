package view

import (
	"github.com/google/uuid"

	"github.com/vango-dev/viewport/pkg/change"
	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/dom"
)

// Instance is a view stamped out of a ProtoView. It tracks its own
// hydration state.
type Instance struct {
	id        string
	proto     *ProtoView
	mounted   *dom.Mounted
	detector  *change.Detector
	injectors []*di.ElementInjector
	roots     []*di.ElementInjector
	byIndex   map[int]*di.ElementInjector
	injector  *di.Injector
	hydrated  bool
}

// ID implements View.
func (v *Instance) ID() string { return v.id }

// Proto returns the template v was created from.
func (v *Instance) Proto() *ProtoView { return v.proto }

// Nodes implements View.
func (v *Instance) Nodes() []*dom.Node { return v.mounted.Roots }

// ChangeDetector implements View.
func (v *Instance) ChangeDetector() *change.Detector { return v.detector }

// RootElementInjectors implements View.
func (v *Instance) RootElementInjectors() []*di.ElementInjector { return v.roots }

// ElementInjectors returns every element injector of the view in binding order.
func (v *Instance) ElementInjectors() []*di.ElementInjector { return v.injectors }

// ElementInjector returns the injector bound to the element at index, or nil.
func (v *Instance) ElementInjector(index int) *di.ElementInjector { return v.byIndex[index] }

// Element returns the element at index in document order, or nil.
func (v *Instance) Element(index int) *dom.Node {
	if index < 0 || index >= len(v.mounted.Elements) {
		return nil
	}
	return v.mounted.Elements[index]
}

// TextNode returns the text node at index in document order, or nil.
func (v *Instance) TextNode(index int) *dom.Node {
	if index < 0 || index >= len(v.mounted.Texts) {
		return nil
	}
	return v.mounted.Texts[index]
}

// Hydrated implements Hydrator.
func (v *Instance) Hydrated() bool { return v.hydrated }

// Hydrate implements Hydrator. A nil injector falls back to the one the
// view was instantiated with. Element injectors are activated against it;
// the view's detector inherits its context from parentDetector's chain
// unless SetContext was called.
func (v *Instance) Hydrate(injector *di.Injector, parent *di.ElementInjector, parentDetector *change.Detector) {
	if injector == nil {
		injector = v.injector
	}
	for _, ei := range v.injectors {
		ei.Hydrate(injector)
	}
	v.hydrated = true
}

// Dehydrate implements Hydrator.
func (v *Instance) Dehydrate() {
	for _, ei := range v.injectors {
		ei.Dehydrate()
	}
	v.hydrated = false
}

// SetContext pins the binding context of this view.
func (v *Instance) SetContext(ctx any) {
	v.detector.SetContext(ctx)
}

// DetectChanges runs change detection for this view and its attached children.
func (v *Instance) DetectChanges() (int, error) {
	return v.detector.DetectChanges()
}

func newInstance(p *ProtoView, injector *di.Injector) *Instance {
	m := dom.Mount(p.template)
	v := &Instance{
		id:       uuid.NewString(),
		proto:    p,
		mounted:  m,
		injector: injector,
		byIndex:  make(map[int]*di.ElementInjector, len(p.elements)),
	}

	byProto := make(map[*di.ProtoElementInjector]*di.ElementInjector, len(p.elements))
	for _, pei := range p.elements {
		ei := pei.Instantiate(byProto[pei.Parent()])
		byProto[pei] = ei
		v.byIndex[pei.Index()] = ei
		v.injectors = append(v.injectors, ei)
		if pei.IsRoot() {
			v.roots = append(v.roots, ei)
		}
	}

	records := make([]change.Record, 0, len(p.texts))
	for _, tb := range p.texts {
		records = append(records, &textRecord{node: m.Texts[tb.index], expr: tb.expr})
	}
	v.detector = change.New(records...)
	return v
}

// textRecord writes the value of expr into a text node when it changes.
type textRecord struct {
	node *dom.Node
	expr func(ctx any) string
	last string
	set  bool
}

func (r *textRecord) Check(ctx any) (bool, error) {
	val := r.expr(ctx)
	if r.set && val == r.last {
		return false, nil
	}
	r.node.SetText(val)
	r.last = val
	r.set = true
	return true, nil
}
