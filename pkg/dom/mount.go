package dom

import "github.com/vango-dev/viewport/pkg/vdom"

// Mounted is the result of mounting a template.
type Mounted struct {
	// Roots are the top-level nodes. Fragments are flattened, so a
	// fragment template yields one root per fragment child.
	Roots []*Node

	// Elements lists every element node in document order.
	Elements []*Node

	// Texts lists every text node in document order.
	Texts []*Node

	// Comments lists every comment node in document order.
	Comments []*Node
}

// Mount creates a fresh live node tree from a template.
func Mount(tmpl *vdom.VNode) *Mounted {
	m := &Mounted{}
	if tmpl == nil {
		return m
	}
	m.Roots = m.build(tmpl)
	return m
}

func (m *Mounted) build(v *vdom.VNode) []*Node {
	switch v.Kind {
	case vdom.KindText:
		n := NewText(v.Text)
		m.Texts = append(m.Texts, n)
		return []*Node{n}

	case vdom.KindComment:
		n := NewComment(v.Text)
		m.Comments = append(m.Comments, n)
		return []*Node{n}

	case vdom.KindFragment:
		var out []*Node
		for _, c := range v.Children {
			if c != nil {
				out = append(out, m.build(c)...)
			}
		}
		return out

	case vdom.KindElement:
		n := NewElement(v.Tag)
		for k, val := range v.Props {
			n.SetAttr(k, val)
		}
		m.Elements = append(m.Elements, n)
		for _, c := range v.Children {
			if c == nil {
				continue
			}
			for _, child := range m.build(c) {
				// n is a fresh element; AppendChild cannot fail here.
				_ = n.AppendChild(child)
			}
		}
		return []*Node{n}
	}
	return nil
}

// FindComment returns the first comment with the given text in n's subtree.
func FindComment(n *Node, text string) *Node {
	if n == nil {
		return nil
	}
	if n.typ == CommentNode && n.text == text {
		return n
	}
	for _, c := range n.children {
		if found := FindComment(c, text); found != nil {
			return found
		}
	}
	return nil
}
