package vdom

import "strings"

// attr creates an attribute.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Class sets the class attribute from space-joined class names.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// AttrValue creates an arbitrary attribute.
func AttrValue(key string, value any) Attr { return attr(key, value) }
