package viewport

import (
	stderrors "errors"
	"log/slog"
	"slices"
	"time"

	"github.com/vango-dev/viewport/pkg/change"
	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/dom"
	"github.com/vango-dev/viewport/pkg/view"
)

// ViewPort is an ordered, anchored container of attached views.
type ViewPort struct {
	name           string
	parentView     view.View
	anchor         *dom.Node
	factory        view.Factory
	parentInjector *di.ElementInjector

	views    []view.View
	hydrated bool
	injector *di.Injector
	context  any

	logger    *slog.Logger
	observers []Observer
}

// New creates a dehydrated port. anchor must be a node in parentView's
// rendered sequence; factory may be nil if views are only ever inserted.
func New(parentView view.View, anchor *dom.Node, factory view.Factory, parentInjector *di.ElementInjector, opts ...Option) *ViewPort {
	if pv, ok := factory.(*view.ProtoView); ok && pv == nil {
		factory = nil
	}
	vp := &ViewPort{
		parentView:     parentView,
		anchor:         anchor,
		factory:        factory,
		parentInjector: parentInjector,
	}
	for _, opt := range opts {
		opt(vp)
	}
	if vp.logger == nil {
		vp.logger = slog.Default().With("component", "viewport")
	}
	if vp.name != "" {
		vp.logger = vp.logger.With("port", vp.name)
	}
	return vp
}

// Name returns the port name.
func (vp *ViewPort) Name() string { return vp.name }

// Anchor returns the insertion anchor.
func (vp *ViewPort) Anchor() *dom.Node { return vp.anchor }

// ParentView returns the view whose rendered sequence holds the anchor.
func (vp *ViewPort) ParentView() view.View { return vp.parentView }

// ParentInjector returns the element scope attached views link beneath.
func (vp *ViewPort) ParentInjector() *di.ElementInjector { return vp.parentInjector }

// Hydrated reports whether the port is hydrated.
func (vp *ViewPort) Hydrated() bool { return vp.hydrated }

// Injector returns the injector recorded by Hydrate, or nil.
func (vp *ViewPort) Injector() *di.Injector { return vp.injector }

// Context returns the context recorded by Hydrate, or nil.
func (vp *ViewPort) Context() any { return vp.context }

// Len returns the number of attached views.
func (vp *ViewPort) Len() int { return len(vp.views) }

// Views returns a copy of the attached views in order.
func (vp *ViewPort) Views() []view.View { return slices.Clone(vp.views) }

// IndexOf returns the position of v, or -1.
func (vp *ViewPort) IndexOf(v view.View) int {
	return slices.Index(vp.views, v)
}

// Get returns the view at index.
func (vp *ViewPort) Get(index int) (view.View, error) {
	if len(vp.views) == 0 {
		return nil, emptyCollection("get")
	}
	if index < 0 || index >= len(vp.views) {
		return nil, indexOutOfRange("get", index, 0, len(vp.views)-1)
	}
	return vp.views[index], nil
}

// Hydrate activates the port. The port must be dehydrated.
func (vp *ViewPort) Hydrate(injector *di.Injector, context any) error {
	start := time.Now()
	if vp.hydrated {
		err := invalidOp(OpHydrate, "port is already hydrated", "Dehydrate the port before hydrating it again")
		return vp.finish(OpHydrate, start, -1, nil, err)
	}
	vp.injector = injector
	vp.context = context
	vp.hydrated = true
	return vp.finish(OpHydrate, start, -1, nil, nil)
}

// Dehydrate unlinks and dehydrates every attached view, empties the list
// and forgets the injector and context. It is a no-op when dehydrated.
func (vp *ViewPort) Dehydrate() {
	if !vp.hydrated {
		return
	}
	start := time.Now()
	for _, v := range vp.views {
		vp.unlink(v)
		v.Dehydrate()
	}
	vp.views = nil
	vp.injector = nil
	vp.context = nil
	vp.hydrated = false
	_ = vp.finish(OpDehydrate, start, -1, nil, nil)
}

// Create instantiates a view from the port's factory and appends it.
func (vp *ViewPort) Create() (view.View, error) {
	return vp.create(len(vp.views))
}

// CreateAt instantiates a view from the port's factory and inserts it at index.
func (vp *ViewPort) CreateAt(index int) (view.View, error) {
	return vp.create(index)
}

func (vp *ViewPort) create(index int) (view.View, error) {
	start := time.Now()
	if err := vp.checkInsert(OpCreate, index); err != nil {
		return nil, vp.finish(OpCreate, start, index, nil, err)
	}
	if vp.factory == nil {
		err := invalidOp(OpCreate, "port has no template", "Construct the port with a ProtoView or use Insert")
		return nil, vp.finish(OpCreate, start, index, nil, err)
	}

	v := vp.factory.Instantiate(vp.injector)
	if err := vp.attach(v, index, OpCreate); err != nil {
		return nil, vp.finish(OpCreate, start, index, v, err)
	}
	return v, vp.finish(OpCreate, start, index, v, nil)
}

// Insert appends v.
func (vp *ViewPort) Insert(v view.View) error {
	return vp.insert(v, len(vp.views))
}

// InsertAt inserts v at index in [0, Len()].
func (vp *ViewPort) InsertAt(v view.View, index int) error {
	return vp.insert(v, index)
}

func (vp *ViewPort) insert(v view.View, index int) error {
	start := time.Now()
	if err := vp.checkInsert(OpInsert, index); err != nil {
		return vp.finish(OpInsert, start, index, v, err)
	}
	if v == nil {
		err := invalidOp(OpInsert, "view is nil", "Pass a view created by a ProtoView or view.NewStatic")
		return vp.finish(OpInsert, start, index, nil, err)
	}
	if vp.IndexOf(v) >= 0 {
		err := invalidOp(OpInsert, "view is already attached to this port", "Use Move to reorder attached views")
		return vp.finish(OpInsert, start, index, v, err)
	}
	if attachedElsewhere(v) {
		err := invalidOp(OpInsert, "view is attached to another container", "Detach the view from its current port first")
		return vp.finish(OpInsert, start, index, v, err)
	}
	return vp.finish(OpInsert, start, index, v, vp.attach(v, index, OpInsert))
}

// Remove unlinks and dehydrates the last view.
func (vp *ViewPort) Remove() error {
	return vp.remove(len(vp.views) - 1)
}

// RemoveAt unlinks and dehydrates the view at index.
func (vp *ViewPort) RemoveAt(index int) error {
	return vp.remove(index)
}

func (vp *ViewPort) remove(index int) error {
	start := time.Now()
	if err := vp.checkExisting(OpRemove, index); err != nil {
		return vp.finish(OpRemove, start, index, nil, err)
	}
	v := vp.views[index]
	vp.unlink(v)
	v.Dehydrate()
	vp.views = slices.Delete(vp.views, index, index+1)
	return vp.finish(OpRemove, start, index, v, nil)
}

// Detach unlinks the last view and returns it without dehydrating it.
func (vp *ViewPort) Detach() (view.View, error) {
	return vp.detach(len(vp.views) - 1)
}

// DetachAt unlinks the view at index and returns it without dehydrating it.
func (vp *ViewPort) DetachAt(index int) (view.View, error) {
	return vp.detach(index)
}

func (vp *ViewPort) detach(index int) (view.View, error) {
	start := time.Now()
	if err := vp.checkExisting(OpDetach, index); err != nil {
		return nil, vp.finish(OpDetach, start, index, nil, err)
	}
	v := vp.views[index]
	vp.unlink(v)
	vp.views = slices.Delete(vp.views, index, index+1)
	return v, vp.finish(OpDetach, start, index, v, nil)
}

// Move reorders the view at from so that it ends up at to. Both indexes
// refer to the list before the move. The view's hydration hooks are not
// called.
func (vp *ViewPort) Move(from, to int) error {
	start := time.Now()
	if err := vp.checkExisting(OpMove, from); err != nil {
		return vp.finish(OpMove, start, from, nil, err)
	}
	if to < 0 || to >= len(vp.views) {
		return vp.finish(OpMove, start, to, nil, indexOutOfRange(OpMove, to, 0, len(vp.views)-1))
	}
	v := vp.views[from]
	if from == to {
		return vp.finish(OpMove, start, to, v, nil)
	}

	vp.unlink(v)
	vp.views = slices.Delete(vp.views, from, from+1)
	if err := vp.link(v, to); err != nil {
		err = linkFailed(OpMove, err)
		// Put it back where it was; from is valid again for the shorter list.
		if rerr := vp.link(v, from); rerr != nil {
			vp.logger.Error("move rollback failed, view dropped from port",
				"view_id", v.ID(), "from", from, "err", rerr)
			return vp.finish(OpMove, start, to, v, stderrors.Join(err, rerr))
		}
		vp.views = slices.Insert(vp.views, from, v)
		return vp.finish(OpMove, start, to, v, err)
	}
	vp.views = slices.Insert(vp.views, to, v)
	return vp.finish(OpMove, start, to, v, nil)
}

// checkInsert validates state and an insertion index in [0, Len()].
func (vp *ViewPort) checkInsert(op Op, index int) error {
	if !vp.hydrated {
		return notHydrated(op)
	}
	if index < 0 || index > len(vp.views) {
		return indexOutOfRange(op, index, 0, len(vp.views))
	}
	if vp.anchor == nil || vp.anchor.Parent() == nil {
		return invalidOp(op, "anchor is not attached to a parent node", "Mount the parent view before hydrating its ports")
	}
	return nil
}

// checkExisting validates state and an index of an attached view.
func (vp *ViewPort) checkExisting(op Op, index int) error {
	if !vp.hydrated {
		return notHydrated(op)
	}
	if len(vp.views) == 0 {
		return emptyCollection(op)
	}
	if index < 0 || index >= len(vp.views) {
		return indexOutOfRange(op, index, 0, len(vp.views)-1)
	}
	return nil
}

// attach links v at index, records it in the list and hydrates it.
func (vp *ViewPort) attach(v view.View, index int, op Op) error {
	if err := vp.link(v, index); err != nil {
		return linkFailed(op, err)
	}
	vp.views = slices.Insert(vp.views, index, v)
	v.Hydrate(vp.injector, vp.parentInjector, vp.parentView.ChangeDetector())
	return nil
}

// attachedElsewhere reports whether v's detector or nodes still have a
// parent, i.e. another container owns v.
func attachedElsewhere(v view.View) bool {
	if cd := v.ChangeDetector(); cd != nil && cd.Parent() != nil {
		return true
	}
	for _, n := range v.Nodes() {
		if n.Parent() != nil {
			return true
		}
	}
	return false
}

// link places v's nodes, root injectors and detector for list position
// index. v must not be in vp.views. On error nothing stays linked.
func (vp *ViewPort) link(v view.View, index int) error {
	parentNode := vp.anchor.Parent()
	ref := vp.anchor
	for _, next := range vp.views[index:] {
		if nodes := next.Nodes(); len(nodes) > 0 {
			ref = nodes[0]
			break
		}
	}

	placed := make([]*dom.Node, 0, len(v.Nodes()))
	for _, n := range v.Nodes() {
		if err := parentNode.InsertBefore(n, ref); err != nil {
			for _, p := range placed {
				p.Remove()
			}
			return err
		}
		placed = append(placed, n)
	}

	parentCD := vp.parentView.ChangeDetector()
	cd := v.ChangeDetector()
	if err := parentCD.InsertChild(cd, vp.detectorPosition(parentCD, cd, index)); err != nil {
		for _, p := range placed {
			p.Remove()
		}
		return err
	}

	for _, ei := range v.RootElementInjectors() {
		ei.LinkTo(vp.parentInjector)
	}
	return nil
}

// detectorPosition returns where cd goes among parentCD's children so that
// the port's detectors keep list order. Children that belong to the parent
// view itself or to other ports keep their positions.
func (vp *ViewPort) detectorPosition(parentCD, cd *change.Detector, index int) int {
	pos := -1
	if index < len(vp.views) {
		pos = parentCD.IndexOf(vp.views[index].ChangeDetector())
	} else if len(vp.views) > 0 {
		if i := parentCD.IndexOf(vp.views[len(vp.views)-1].ChangeDetector()); i >= 0 {
			pos = i + 1
		}
	}
	if pos < 0 {
		pos = parentCD.Len()
	}
	if cd.Parent() == parentCD && parentCD.IndexOf(cd) < pos {
		pos--
	}
	return pos
}

// unlink removes v's nodes, root injector links and detector link.
func (vp *ViewPort) unlink(v view.View) {
	for _, n := range v.Nodes() {
		n.Remove()
	}
	for _, ei := range v.RootElementInjectors() {
		ei.Unlink()
	}
	v.ChangeDetector().Remove()
}

// finish logs the outcome of op, notifies observers and returns err.
func (vp *ViewPort) finish(op Op, start time.Time, index int, v view.View, err error) error {
	ev := Event{
		Port:     vp.name,
		Op:       op,
		Index:    index,
		Len:      len(vp.views),
		Duration: time.Since(start),
		Err:      err,
	}
	if v != nil {
		ev.ViewID = v.ID()
	}

	if err != nil {
		vp.logger.Debug("viewport op failed", "op", op, "index", index, "len", ev.Len, "err", err)
	} else {
		vp.logger.Debug("viewport op", "op", op, "index", index, "len", ev.Len, "view_id", ev.ViewID)
	}

	for _, o := range vp.observers {
		o.Observe(ev)
	}
	return err
}
