package viewport

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/dom"
	"github.com/vango-dev/viewport/pkg/vdom"
	"github.com/vango-dev/viewport/pkg/view"
)

// portMachine drives a port with random operations and checks its
// structural invariants after every step.
type portMachine struct {
	f     *fixture
	next  int
	model []view.View
}

func (m *portMachine) newView(t *rapid.T) view.View {
	m.next++
	n := rapid.IntRange(0, 3).Draw(t, "nodes")
	var tmpls []*vdom.VNode
	for i := range n {
		tmpls = append(tmpls, vdom.Span(fmt.Sprintf("v%d.%d", m.next, i)))
	}
	fv := newFakeView(rapid.Bool().Draw(t, "hydrated"))
	fv.id = fmt.Sprintf("v%d", m.next)
	fv.nodes = nil
	for _, tmpl := range tmpls {
		fv.nodes = append(fv.nodes, dom.Mount(tmpl).Roots...)
	}
	fv.roots = []*di.ElementInjector{di.NewElementInjector(nil)}
	return fv
}

func (m *portMachine) Insert(t *rapid.T) {
	i := rapid.IntRange(0, len(m.model)).Draw(t, "index")
	v := m.newView(t)
	if err := m.f.port.InsertAt(v, i); err != nil {
		t.Fatalf("InsertAt(%d): %v", i, err)
	}
	m.model = slices.Insert(m.model, i, v)
	if !v.Hydrated() {
		t.Fatalf("inserted view is not hydrated")
	}
}

func (m *portMachine) Create(t *rapid.T) {
	i := rapid.IntRange(0, len(m.model)).Draw(t, "index")
	v, err := m.f.port.CreateAt(i)
	if err != nil {
		t.Fatalf("CreateAt(%d): %v", i, err)
	}
	m.model = slices.Insert(m.model, i, v)
}

func (m *portMachine) Remove(t *rapid.T) {
	if len(m.model) == 0 {
		if err := m.f.port.Remove(); err == nil {
			t.Fatalf("Remove on empty port succeeded")
		}
		return
	}
	i := rapid.IntRange(0, len(m.model)-1).Draw(t, "index")
	v := m.model[i]
	if err := m.f.port.RemoveAt(i); err != nil {
		t.Fatalf("RemoveAt(%d): %v", i, err)
	}
	m.model = slices.Delete(m.model, i, i+1)
	if v.Hydrated() {
		t.Fatalf("removed view is still hydrated")
	}
	assertUnlinked(t, v)
}

func (m *portMachine) Detach(t *rapid.T) {
	if len(m.model) == 0 {
		t.Skip("empty")
	}
	i := rapid.IntRange(0, len(m.model)-1).Draw(t, "index")
	want := m.model[i]
	before := want.Hydrated()
	got, err := m.f.port.DetachAt(i)
	if err != nil {
		t.Fatalf("DetachAt(%d): %v", i, err)
	}
	if got != want {
		t.Fatalf("DetachAt(%d) returned %s, want %s", i, got.ID(), want.ID())
	}
	if got.Hydrated() != before {
		t.Fatalf("detach changed hydration state")
	}
	m.model = slices.Delete(m.model, i, i+1)
	assertUnlinked(t, got)
}

func (m *portMachine) Move(t *rapid.T) {
	if len(m.model) == 0 {
		t.Skip("empty")
	}
	from := rapid.IntRange(0, len(m.model)-1).Draw(t, "from")
	to := rapid.IntRange(0, len(m.model)-1).Draw(t, "to")
	if err := m.f.port.Move(from, to); err != nil {
		t.Fatalf("Move(%d, %d): %v", from, to, err)
	}
	v := m.model[from]
	m.model = slices.Delete(m.model, from, from+1)
	m.model = slices.Insert(m.model, to, v)
}

func (m *portMachine) Check(t *rapid.T) {
	if got := m.f.port.Views(); !slices.Equal(got, m.model) {
		t.Fatalf("views diverged from model: %d vs %d", len(got), len(m.model))
	}

	// Node order: the views' nodes form the block right before the anchor.
	var want []*dom.Node
	for _, v := range m.model {
		want = append(want, v.Nodes()...)
	}
	children := m.f.host.Children()
	anchorAt := slices.Index(children, m.f.anchor)
	if anchorAt-len(want) != 1 {
		t.Fatalf("block has %d nodes, want %d", anchorAt-1, len(want))
	}
	if !slices.Equal(children[1:anchorAt], want) {
		t.Fatalf("node block out of order")
	}

	// Linkage: injector parents and detector order.
	parentCD := m.f.parentView.ChangeDetector()
	if parentCD.Len() != len(m.model) {
		t.Fatalf("parent detector has %d children, want %d", parentCD.Len(), len(m.model))
	}
	for i, v := range m.model {
		if parentCD.Children()[i] != v.ChangeDetector() {
			t.Fatalf("detector %d out of order", i)
		}
		for _, ei := range v.RootElementInjectors() {
			if ei.Parent() != m.f.parentEI {
				t.Fatalf("view %d root injector not linked", i)
			}
		}
	}
}

func assertUnlinked(t *rapid.T, v view.View) {
	for _, n := range v.Nodes() {
		if n.Parent() != nil {
			t.Fatalf("node of %s still attached", v.ID())
		}
	}
	for _, ei := range v.RootElementInjectors() {
		if ei.Parent() != nil {
			t.Fatalf("injector of %s still linked", v.ID())
		}
	}
	if v.ChangeDetector().Parent() != nil {
		t.Fatalf("detector of %s still linked", v.ID())
	}
}

func TestPortInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		if err := f.port.Hydrate(di.NewInjector(), nil); err != nil {
			rt.Fatalf("Hydrate: %v", err)
		}
		m := &portMachine{f: f}
		rt.Repeat(rapid.StateMachineActions(m))

		f.port.Dehydrate()
		if f.port.Len() != 0 || f.parentView.ChangeDetector().Len() != 0 {
			rt.Fatalf("dehydrate left views linked")
		}
		for _, v := range m.model {
			assertUnlinked(rt, v)
		}
	})
}
