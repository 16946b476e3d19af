package di

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProvider is returned when no scope can resolve a token.
	ErrNoProvider = errors.New("di: no provider")

	// ErrCycle is returned when resolving a token requires itself.
	ErrCycle = errors.New("di: dependency cycle")

	// ErrDehydrated is returned when a dehydrated element injector is asked
	// for one of its own directives.
	ErrDehydrated = errors.New("di: element injector is not hydrated")
)

// Resolver looks up instances by token.
type Resolver interface {
	Get(token any) (any, error)
}

// Provider builds the instance for a token. It may resolve dependencies
// through r.
type Provider func(r Resolver) (any, error)

// Binding associates a token with a provider.
type Binding struct {
	Token    any
	Provider Provider
}

// Value binds token to a fixed value.
func Value(token, value any) Binding {
	return Binding{Token: token, Provider: func(Resolver) (any, error) { return value, nil }}
}

// Factory binds token to a provider. The instance is built once per injector.
func Factory(token any, p Provider) Binding {
	return Binding{Token: token, Provider: p}
}

// Injector is a provider registry. Instances are singletons per injector.
type Injector struct {
	parent    *Injector
	providers map[any]Provider
	instances map[any]any
	resolving map[any]bool
}

// NewInjector creates a root injector.
func NewInjector(bindings ...Binding) *Injector {
	inj := &Injector{
		providers: make(map[any]Provider, len(bindings)),
		instances: make(map[any]any),
		resolving: make(map[any]bool),
	}
	for _, b := range bindings {
		inj.providers[b.Token] = b.Provider
	}
	return inj
}

// Child creates an injector that falls back to i.
func (i *Injector) Child(bindings ...Binding) *Injector {
	child := NewInjector(bindings...)
	child.parent = i
	return child
}

// Parent returns the parent injector, or nil.
func (i *Injector) Parent() *Injector {
	return i.parent
}

// Has reports whether token is bound in i or an ancestor.
func (i *Injector) Has(token any) bool {
	for cur := i; cur != nil; cur = cur.parent {
		if _, ok := cur.providers[token]; ok {
			return true
		}
	}
	return false
}

// Get resolves token, walking up the parent chain.
func (i *Injector) Get(token any) (any, error) {
	for cur := i; cur != nil; cur = cur.parent {
		if _, ok := cur.providers[token]; ok {
			return cur.instantiate(token)
		}
	}
	return nil, fmt.Errorf("%w for %v", ErrNoProvider, token)
}

func (i *Injector) instantiate(token any) (any, error) {
	if v, ok := i.instances[token]; ok {
		return v, nil
	}
	if i.resolving[token] {
		return nil, fmt.Errorf("%w at %v", ErrCycle, token)
	}
	i.resolving[token] = true
	defer delete(i.resolving, token)

	v, err := i.providers[token](i)
	if err != nil {
		return nil, fmt.Errorf("di: provide %v: %w", token, err)
	}
	i.instances[token] = v
	return v, nil
}

// Resolve is a typed Get.
func Resolve[T any](r Resolver, token any) (T, error) {
	var zero T
	v, err := r.Get(token)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("di: %v resolved to %T, want %T", token, v, zero)
	}
	return t, nil
}
