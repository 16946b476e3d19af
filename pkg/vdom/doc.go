// Package vdom provides immutable template descriptions for views.
//
// A VNode tree describes what a ProtoView renders: elements, text, comments
// and fragments. Trees are never mutated after construction; the live,
// mutable node tree lives in package dom and is produced by dom.Mount.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Li(Class("row"), Data("id", "7"),
//	    Span(Text("label")),
//	)
//
// Arguments may be attributes, child nodes, slices of either, or plain
// strings (shorthand for text children). nil arguments are ignored so
// conditional attributes compose without branching.
//
// # Anchors
//
// Anchor creates a comment node. Hosts place one anchor per view port in
// their template; the port's views are rendered immediately before it.
package vdom
