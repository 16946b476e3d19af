package dom

import (
	"errors"
	"fmt"
	"slices"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

var (
	// ErrNotChild is returned when a reference node is not a child of the receiver.
	ErrNotChild = errors.New("dom: reference node is not a child")

	// ErrHierarchy is returned when an insertion would create a cycle or
	// attach children to a non-element node.
	ErrHierarchy = errors.New("dom: invalid hierarchy")
)

// Node is a live rendered node.
type Node struct {
	typ      NodeType
	tag      string
	text     string
	attrs    map[string]any
	parent   *Node
	children []*Node
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{typ: ElementNode, tag: tag}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{typ: TextNode, text: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{typ: CommentNode, text: text}
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag name ("" for text and comments).
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Text returns the text of a text or comment node.
func (n *Node) Text() string { return n.text }

// SetText replaces the text of a text or comment node.
func (n *Node) SetText(text string) { n.text = text }

// Attr returns an attribute value.
func (n *Node) Attr(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute value.
func (n *Node) SetAttr(key string, value any) {
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[key] = value
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// NextSibling returns the node following n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.IndexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PrevSibling returns the node preceding n in its parent, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.IndexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore moves child immediately before ref among n's children.
// A nil ref appends. Inserting a node before itself is a no-op.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrHierarchy)
	}
	if n.typ != ElementNode {
		return fmt.Errorf("%w: %s node cannot have children", ErrHierarchy, n.typ)
	}
	if child == ref {
		return nil
	}
	if ref != nil && ref.parent != n {
		return ErrNotChild
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: node would contain itself", ErrHierarchy)
		}
	}

	child.Remove()

	pos := len(n.children)
	if ref != nil {
		pos = n.IndexOf(ref)
	}
	n.children = slices.Insert(n.children, pos, child)
	child.parent = n
	return nil
}

// Remove detaches n from its parent. Removing a detached node is a no-op.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.IndexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}
