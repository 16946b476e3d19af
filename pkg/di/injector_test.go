package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct{ name string }

func TestInjectorGet(t *testing.T) {
	calls := 0
	inj := NewInjector(
		Value("name", "world"),
		Factory("greeter", func(r Resolver) (any, error) {
			calls++
			name, err := Resolve[string](r, "name")
			if err != nil {
				return nil, err
			}
			return &greeter{name: name}, nil
		}),
	)

	g1, err := Resolve[*greeter](inj, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "world", g1.name)

	g2, err := Resolve[*greeter](inj, "greeter")
	require.NoError(t, err)
	assert.Same(t, g1, g2, "instances are singletons per injector")
	assert.Equal(t, 1, calls)
}

func TestInjectorChild(t *testing.T) {
	root := NewInjector(Value("a", 1))
	child := root.Child(Value("b", 2))

	assert.Same(t, root, child.Parent())
	assert.True(t, child.Has("a"))
	assert.True(t, child.Has("b"))
	assert.False(t, root.Has("b"))

	v, err := child.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = root.Get("b")
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestInjectorCycle(t *testing.T) {
	inj := NewInjector(
		Factory("a", func(r Resolver) (any, error) { return r.Get("b") }),
		Factory("b", func(r Resolver) (any, error) { return r.Get("a") }),
	)

	_, err := inj.Get("a")
	assert.True(t, errors.Is(err, ErrCycle), "err = %v", err)
}

func TestInjectorProviderError(t *testing.T) {
	boom := errors.New("boom")
	inj := NewInjector(Factory("x", func(Resolver) (any, error) { return nil, boom }))

	_, err := inj.Get("x")
	assert.ErrorIs(t, err, boom)
}

func TestResolveTypeMismatch(t *testing.T) {
	inj := NewInjector(Value("n", 3))
	_, err := Resolve[string](inj, "n")
	assert.Error(t, err)
}
