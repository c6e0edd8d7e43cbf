// Package persist defines the tree of named nodes that thoughts and maps
// are saved to, together with XML and JSON codecs for it.
//
// A Node is an element with ordered string attributes, child elements and
// character data. Typed accessors parse attributes and report problems as
// *FieldError values so loaders can skip a bad field and keep going.
package persist

import (
	"slices"
	"strconv"
)

// Attr is one attribute of a node.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a saved document.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// NewNode creates an empty node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Get returns the value of attribute name.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Value returns the value of attribute name, or "" if absent.
func (n *Node) Value(name string) string {
	v, _ := n.Get(name)
	return v
}

// Has reports whether attribute name is present.
func (n *Node) Has(name string) bool {
	_, ok := n.Get(name)
	return ok
}

// Set sets attribute name, keeping its position if it already exists.
func (n *Node) Set(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// SetInt sets an integer attribute.
func (n *Node) SetInt(name string, v int) *Node {
	return n.Set(name, strconv.Itoa(v))
}

// SetBool sets a boolean attribute as "True" or "False".
func (n *Node) SetBool(name string, v bool) *Node {
	if v {
		return n.Set(name, "True")
	}
	return n.Set(name, "False")
}

// SetFlag sets name to "true" when v holds and removes it otherwise.
func (n *Node) SetFlag(name string, v bool) *Node {
	if v {
		return n.Set(name, "true")
	}
	n.Remove(name)
	return n
}

// Remove deletes attribute name.
func (n *Node) Remove(name string) {
	n.Attrs = slices.DeleteFunc(n.Attrs, func(a Attr) bool { return a.Name == name })
}

// Int parses attribute name as an integer.
func (n *Node) Int(name string) (int, error) {
	v, ok := n.Get(name)
	if !ok {
		return 0, fieldError(n, name, "", ErrMissingField)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fieldError(n, name, v, err)
	}
	return i, nil
}

// Float parses attribute name as a number.
func (n *Node) Float(name string) (float64, error) {
	v, ok := n.Get(name)
	if !ok {
		return 0, fieldError(n, name, "", ErrMissingField)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fieldError(n, name, v, err)
	}
	return f, nil
}

// Bool parses attribute name. "True", "true" and "1" are true; "False",
// "false" and "0" are false.
func (n *Node) Bool(name string) (bool, error) {
	v, ok := n.Get(name)
	if !ok {
		return false, fieldError(n, name, "", ErrMissingField)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fieldError(n, name, v, err)
	}
	return b, nil
}

// Coords parses attribute name as an "(x, y)" pair.
func (n *Node) Coords(name string) (x, y float64, err error) {
	v, ok := n.Get(name)
	if !ok {
		return 0, 0, fieldError(n, name, "", ErrMissingField)
	}
	x, y, err = ParseCoords(v)
	if err != nil {
		return 0, 0, fieldError(n, name, v, err)
	}
	return x, y, nil
}

// SetCoords sets attribute name to "(x, y)".
func (n *Node) SetCoords(name string, x, y float64) *Node {
	return n.Set(name, FormatCoords(x, y))
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// AppendNew adds a child called name and returns it.
func (n *Node) AppendNew(name string) *Node {
	c := NewNode(name)
	n.Children = append(n.Children, c)
	return c
}

// Child returns the first child called name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child called name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// RemoveChildren deletes every child called name.
func (n *Node) RemoveChildren(name string) {
	n.Children = slices.DeleteFunc(n.Children, func(c *Node) bool { return c.Name == name })
}

// Equal reports whether two trees are identical.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Name != o.Name || n.Text != o.Text || !slices.Equal(n.Attrs, o.Attrs) {
		return false
	}
	return slices.EqualFunc(n.Children, o.Children, (*Node).Equal)
}
