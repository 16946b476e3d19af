// Package dom is the live rendered node tree that views are placed into.
//
// Nodes form an ordered tree with explicit parent links. The only mutations
// exposed are AppendChild, InsertBefore and Remove, which keep parent and
// child links consistent: a node always has at most one parent, and moving a
// node detaches it from its previous parent first.
//
// Mount turns an immutable vdom template into a fresh set of live nodes and
// reports the text and element nodes in document order so bindings can be
// attached to them by index.
//
// The tree is not safe for concurrent mutation. Callers serialize access.
package dom
