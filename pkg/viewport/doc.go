// Package viewport implements the dynamic view slot of a parent view.
//
// A ViewPort is anchored at one node of its parent view's rendered
// sequence. It holds an ordered list of attached views and keeps three
// structures consistent with that list on every mutation:
//
//   - Rendered nodes: the nodes of views[0..n) form one contiguous block
//     that ends immediately before the anchor, in list order.
//   - Element scopes: every root element injector of an attached view has
//     the port's parent element injector as its parent.
//   - Change detection: every attached view's detector is a child of the
//     parent view's detector, in the same relative order as the list.
//
// # Hydration
//
// A port starts dehydrated. Hydrate activates it with a live injector and
// context; Dehydrate unlinks and dehydrates every attached view and empties
// the list. Create, Insert, Remove, Detach and Move fail with
// ErrInvalidOperation while dehydrated. Get and Len are always valid.
//
// Insert hydrates the view it attaches and Remove dehydrates the view it
// drops. Detach unlinks the view but leaves its hydration state alone so
// it can be inserted into another port intact:
//
//	v, err := from.Detach()
//	if err != nil {
//	    return err
//	}
//	return to.InsertAt(v, 0)
//
// # Ownership
//
// The parent view, the anchor and the parent element injector are shared
// references owned by the host, which must keep them alive for the port's
// lifetime. An attached view belongs to exactly one port at a time.
//
// A ViewPort is not safe for concurrent use. Hosts that share a port
// between goroutines must serialize calls, and must not call back into a
// port from hooks that run during one of its own operations.
package viewport
