package view

import (
	"fmt"
	"slices"

	"github.com/vango-dev/viewport/pkg/di"
	"github.com/vango-dev/viewport/pkg/vdom"
)

// TextBinding computes the content of a text node from the binding context.
type TextBinding func(ctx any) string

type textBinder struct {
	index int
	expr  TextBinding
}

// ProtoView is the template from which view Instances are created.
type ProtoView struct {
	template     *vdom.VNode
	elementCount int
	textCount    int
	elements     []*di.ProtoElementInjector
	texts        []textBinder
}

// NewProtoView creates a ProtoView over tmpl. The template is not copied
// and must not be mutated afterwards.
func NewProtoView(tmpl *vdom.VNode) *ProtoView {
	p := &ProtoView{template: tmpl}
	vdom.Walk(tmpl, func(n *vdom.VNode) bool {
		switch n.Kind {
		case vdom.KindElement:
			p.elementCount++
		case vdom.KindText:
			p.textCount++
		}
		return true
	})
	return p
}

// Template returns the template tree.
func (p *ProtoView) Template() *vdom.VNode { return p.template }

// BindElement attaches an element scope to the element at pei.Index().
// A non-root pei must have its parent bound first.
func (p *ProtoView) BindElement(pei *di.ProtoElementInjector) error {
	if pei == nil {
		return fmt.Errorf("view: nil element injector")
	}
	if pei.Index() < 0 || pei.Index() >= p.elementCount {
		return fmt.Errorf("view: element index %d not in [0, %d)", pei.Index(), p.elementCount)
	}
	for _, bound := range p.elements {
		if bound.Index() == pei.Index() {
			return fmt.Errorf("view: element %d already bound", pei.Index())
		}
	}
	if parent := pei.Parent(); parent != nil && !slices.Contains(p.elements, parent) {
		return fmt.Errorf("view: parent of element %d is not bound", pei.Index())
	}
	p.elements = append(p.elements, pei)
	return nil
}

// BindText binds the text node at index (document order) to expr.
func (p *ProtoView) BindText(index int, expr TextBinding) error {
	if expr == nil {
		return fmt.Errorf("view: nil text binding")
	}
	if index < 0 || index >= p.textCount {
		return fmt.Errorf("view: text index %d not in [0, %d)", index, p.textCount)
	}
	p.texts = append(p.texts, textBinder{index: index, expr: expr})
	return nil
}

// New creates a dehydrated Instance. injector is used by Hydrate when the
// caller supplies none.
func (p *ProtoView) New(injector *di.Injector) *Instance {
	return newInstance(p, injector)
}

// Instantiate implements Factory.
func (p *ProtoView) Instantiate(injector *di.Injector) View {
	return p.New(injector)
}
