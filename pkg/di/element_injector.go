package di

import "fmt"

// Directive is a per-element service declared on a template element.
type Directive struct {
	Token    any
	Provider Provider
}

// ProtoElementInjector is the immutable description of an element scope in
// a template. Parent is nil for scopes that are roots within their view.
type ProtoElementInjector struct {
	parent     *ProtoElementInjector
	index      int
	directives []Directive
}

// NewProtoElementInjector describes the scope of the element at index.
func NewProtoElementInjector(parent *ProtoElementInjector, index int, directives ...Directive) *ProtoElementInjector {
	return &ProtoElementInjector{parent: parent, index: index, directives: directives}
}

// Parent returns the parent description, or nil for a root.
func (p *ProtoElementInjector) Parent() *ProtoElementInjector { return p.parent }

// Index returns the element index in document order.
func (p *ProtoElementInjector) Index() int { return p.index }

// IsRoot reports whether instances of p are roots of their view's scope tree.
func (p *ProtoElementInjector) IsRoot() bool { return p.parent == nil }

// Instantiate creates a dehydrated element injector linked to parent.
func (p *ProtoElementInjector) Instantiate(parent *ElementInjector) *ElementInjector {
	return &ElementInjector{proto: p, parent: parent}
}

// ElementInjector is a node in the element scope tree.
type ElementInjector struct {
	proto     *ProtoElementInjector
	parent    *ElementInjector
	host      *Injector
	instances map[any]any
	resolving map[any]bool
	hydrated  bool
}

// NewElementInjector creates a standalone element injector with the given
// directives. Hosts use it for the scope that view ports link into.
func NewElementInjector(parent *ElementInjector, directives ...Directive) *ElementInjector {
	return NewProtoElementInjector(nil, 0, directives...).Instantiate(parent)
}

// Proto returns the description this injector was created from.
func (e *ElementInjector) Proto() *ProtoElementInjector { return e.proto }

// Parent returns the current parent, or nil.
func (e *ElementInjector) Parent() *ElementInjector { return e.parent }

// LinkTo sets the parent link.
func (e *ElementInjector) LinkTo(parent *ElementInjector) {
	e.parent = parent
}

// Unlink clears the parent link.
func (e *ElementInjector) Unlink() {
	e.parent = nil
}

// Hydrated reports whether directives can be instantiated.
func (e *ElementInjector) Hydrated() bool { return e.hydrated }

// Hydrate activates the scope against host. Directive instances are
// created lazily on first Get. Hydrating again with the same host keeps
// the instances already created.
func (e *ElementInjector) Hydrate(host *Injector) {
	if e.hydrated && e.host == host {
		return
	}
	e.host = host
	e.instances = make(map[any]any)
	e.resolving = make(map[any]bool)
	e.hydrated = true
}

// Dehydrate drops directive instances and the host injector.
func (e *ElementInjector) Dehydrate() {
	e.host = nil
	e.instances = nil
	e.resolving = nil
	e.hydrated = false
}

// Get resolves token from this element's directives, then its ancestors,
// then the host injector of the nearest hydrated scope.
func (e *ElementInjector) Get(token any) (any, error) {
	for cur := e; cur != nil; cur = cur.parent {
		if d, ok := cur.directive(token); ok {
			if !cur.hydrated {
				return nil, fmt.Errorf("%w: %v", ErrDehydrated, token)
			}
			return cur.instantiate(d)
		}
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.host != nil {
			return cur.host.Get(token)
		}
	}
	return nil, fmt.Errorf("%w for %v", ErrNoProvider, token)
}

func (e *ElementInjector) directive(token any) (Directive, bool) {
	if e.proto == nil {
		return Directive{}, false
	}
	for _, d := range e.proto.directives {
		if d.Token == token {
			return d, true
		}
	}
	return Directive{}, false
}

func (e *ElementInjector) instantiate(d Directive) (any, error) {
	if v, ok := e.instances[d.Token]; ok {
		return v, nil
	}
	if e.resolving[d.Token] {
		return nil, fmt.Errorf("%w at %v", ErrCycle, d.Token)
	}
	e.resolving[d.Token] = true
	defer delete(e.resolving, d.Token)

	v, err := d.Provider(e)
	if err != nil {
		return nil, fmt.Errorf("di: directive %v: %w", d.Token, err)
	}
	e.instances[d.Token] = v
	return v, nil
}
