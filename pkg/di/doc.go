// Package di provides the dependency-injection scopes views link into.
//
// An Injector is an application-level provider registry with an optional
// parent. An ElementInjector is a node in the hierarchical element scope
// tree: it owns the directives declared on one element and resolves
// lookups through its parent link, then through the Injector it was
// hydrated with.
//
// The parent link of an ElementInjector is the only mutable tree edge and
// is changed exclusively through LinkTo and Unlink.
package di
