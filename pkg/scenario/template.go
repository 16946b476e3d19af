package scenario

import (
	"fmt"
	"slices"

	"github.com/vango-dev/viewport/pkg/vdom"
	"github.com/vango-dev/viewport/pkg/view"
)

// Template is a node description in a scenario document. A template with
// a Tag is an element, one with Fragment is a list of siblings and one
// with neither is a text node.
type Template struct {
	Tag      string            `yaml:"tag" json:"tag,omitempty"`
	Text     string            `yaml:"text" json:"text,omitempty"`
	Attrs    map[string]string `yaml:"attrs" json:"attrs,omitempty"`
	Children []Template        `yaml:"children" json:"children,omitempty"`
	Fragment []Template        `yaml:"fragment" json:"fragment,omitempty"`

	// Bind names a context key whose value replaces the node's text on
	// change detection. On an element it binds the element's first text.
	Bind string `yaml:"bind" json:"bind,omitempty"`
}

func (t Template) validate() error {
	if t.Fragment != nil && (t.Tag != "" || t.Text != "" || t.Children != nil) {
		return fmt.Errorf("fragment cannot have tag, text or children")
	}
	if t.Tag == "" && t.Fragment == nil && t.Children != nil {
		return fmt.Errorf("text node cannot have children")
	}
	for _, c := range slices.Concat(t.Children, t.Fragment) {
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Compile builds a ProtoView with one text binding per Bind.
func (t Template) Compile() (*view.ProtoView, error) {
	bound := make(map[*vdom.VNode]string)
	root := t.build(bound)

	pv := view.NewProtoView(root)
	index := 0
	var err error
	vdom.Walk(root, func(n *vdom.VNode) bool {
		if n.Kind != vdom.KindText {
			return true
		}
		if key, ok := bound[n]; ok && err == nil {
			err = pv.BindText(index, lookup(key))
		}
		index++
		return true
	})
	if err != nil {
		return nil, err
	}
	return pv, nil
}

func (t Template) build(bound map[*vdom.VNode]string) *vdom.VNode {
	if t.Fragment != nil {
		children := make([]any, 0, len(t.Fragment))
		for _, c := range t.Fragment {
			children = append(children, c.build(bound))
		}
		return vdom.Fragment(children...)
	}

	if t.Tag == "" {
		n := vdom.Text(t.Text)
		if t.Bind != "" {
			bound[n] = t.Bind
		}
		return n
	}

	args := make([]any, 0, len(t.Attrs)+len(t.Children)+1)
	for k, v := range t.Attrs {
		args = append(args, vdom.AttrValue(k, v))
	}
	if t.Text != "" || t.Bind != "" {
		text := vdom.Text(t.Text)
		if t.Bind != "" {
			bound[text] = t.Bind
		}
		args = append(args, text)
	}
	for _, c := range t.Children {
		args = append(args, c.build(bound))
	}
	return vdom.El(t.Tag, args...)
}

// lookup reads key from a map[string]string context.
func lookup(key string) view.TextBinding {
	return func(ctx any) string {
		switch m := ctx.(type) {
		case map[string]string:
			return m[key]
		case map[string]any:
			if v, ok := m[key]; ok {
				return fmt.Sprint(v)
			}
		}
		return ""
	}
}
