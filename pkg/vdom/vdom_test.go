package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindFragment, "Fragment"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	t.Run("with attributes", func(t *testing.T) {
		node := Div(Class("card", "wide"), AttrValue("id", "main"), AttrValue("data-id", "7"))
		if node.Kind != KindElement || node.Tag != "div" {
			t.Fatalf("node = %v/%q, want Element/div", node.Kind, node.Tag)
		}
		if node.Props["class"] != "card wide" {
			t.Errorf("class = %v, want card wide", node.Props["class"])
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
		if node.Props["data-id"] != "7" {
			t.Errorf("data-id = %v, want 7", node.Props["data-id"])
		}
	})

	t.Run("with string shorthand", func(t *testing.T) {
		node := Div("Hello")
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Kind != KindText {
			t.Errorf("Child kind = %v, want KindText", node.Children[0].Kind)
		}
		if node.Children[0].Text != "Hello" {
			t.Errorf("Child text = %v, want Hello", node.Children[0].Text)
		}
	})

	t.Run("with nil ignored", func(t *testing.T) {
		node := Div(nil, Class("test"), nil)
		if node.Props["class"] != "test" {
			t.Errorf("class = %v, want test", node.Props["class"])
		}
		if len(node.Children) != 0 {
			t.Errorf("Children len = %v, want 0", len(node.Children))
		}
	})

	t.Run("with slice containing nil", func(t *testing.T) {
		children := []*VNode{Li(Text("A")), nil, Li(Text("B"))}
		node := El("ul", children)
		if len(node.Children) != 2 {
			t.Fatalf("Children len = %v, want 2 (nil filtered)", len(node.Children))
		}
	})

	t.Run("with slice of attributes", func(t *testing.T) {
		node := El("section", []Attr{Class("test"), {}, AttrValue("id", "main")})
		if node.Tag != "section" {
			t.Errorf("Tag = %q, want section", node.Tag)
		}
		if len(node.Props) != 2 {
			t.Errorf("Props len = %d, want 2 (empty attr skipped)", len(node.Props))
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") {
		t.Error("br should be void")
	}
	if IsVoidElement("div") {
		t.Error("div should not be void")
	}
}

func TestFragmentAndAnchor(t *testing.T) {
	frag := Fragment(Li("a"), nil, "b", []*VNode{Li("c")})
	if frag.Kind != KindFragment {
		t.Fatalf("Kind = %v, want Fragment", frag.Kind)
	}
	if len(frag.Children) != 3 {
		t.Errorf("Children len = %d, want 3", len(frag.Children))
	}

	a := Anchor("items")
	if a.Kind != KindComment || a.Text != "items" {
		t.Errorf("Anchor = %v/%q, want Comment/items", a.Kind, a.Text)
	}
}

func TestWalk(t *testing.T) {
	tree := Div(Span(Text("a")), Text("b"), El("ul", Li("x"), Li("y")))

	var tags []string
	Walk(tree, func(n *VNode) bool {
		if n.Kind == KindElement {
			tags = append(tags, n.Tag)
		}
		return n.Tag != "ul"
	})
	want := []string{"div", "span", "ul"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}
