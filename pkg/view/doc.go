// Package view defines renderable views and the templates that create them.
//
// A View is an ordered run of rendered nodes plus the change detector and
// the root element injectors that must be linked into a host's trees when
// the view is attached. Hydration awareness is part of the View interface:
// Static views are always hydrated and ignore the hooks, Instance views
// track their own state.
//
// A ProtoView is the immutable template a host uses to stamp out new
// Instances. Element and text bindings are declared on the ProtoView
// before the first Instantiate call.
package view
