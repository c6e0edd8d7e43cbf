package persist

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalJSON encodes n as
//
//	{"name": ..., "attrs": [{"name": ..., "value": ...}], "text": ..., "children": [...]}
//
// Empty attrs, text and children are omitted.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "name", n.Name); err != nil {
		return nil, err
	}
	if len(n.Attrs) > 0 {
		attrs := []byte(`[]`)
		for i, a := range n.Attrs {
			attr, err := sjson.SetBytes([]byte(`{}`), "name", a.Name)
			if err == nil {
				attr, err = sjson.SetBytes(attr, "value", a.Value)
			}
			if err == nil {
				attrs, err = sjson.SetRawBytes(attrs, strconv.Itoa(i), attr)
			}
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}
		}
		if out, err = sjson.SetRawBytes(out, "attrs", attrs); err != nil {
			return nil, err
		}
	}
	if n.Text != "" {
		if out, err = sjson.SetBytes(out, "text", n.Text); err != nil {
			return nil, err
		}
	}
	if len(n.Children) > 0 {
		children := []byte(`[]`)
		for i, c := range n.Children {
			raw, err := c.MarshalJSON()
			if err != nil {
				return nil, err
			}
			if children, err = sjson.SetRawBytes(children, strconv.Itoa(i), raw); err != nil {
				return nil, fmt.Errorf("child %s: %w", c.Name, err)
			}
		}
		if out, err = sjson.SetRawBytes(out, "children", children); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}
	decoded, err := nodeFromJSON(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func nodeFromJSON(v gjson.Result) (*Node, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: node is %s, want object", ErrMalformedDocument, v.Type)
	}
	name := v.Get("name")
	if name.Type != gjson.String || name.Str == "" {
		return nil, fmt.Errorf("%w: node without a name", ErrMalformedDocument)
	}
	n := NewNode(name.Str)
	n.Text = v.Get("text").String()

	var err error
	v.Get("attrs").ForEach(func(_, a gjson.Result) bool {
		key := a.Get("name")
		if key.Type != gjson.String {
			err = fmt.Errorf("%w: attribute without a name in %s", ErrMalformedDocument, n.Name)
			return false
		}
		n.Attrs = append(n.Attrs, Attr{Name: key.Str, Value: a.Get("value").String()})
		return true
	})
	if err != nil {
		return nil, err
	}
	v.Get("children").ForEach(func(_, c gjson.Result) bool {
		var child *Node
		child, err = nodeFromJSON(c)
		if err != nil {
			return false
		}
		n.Children = append(n.Children, child)
		return true
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Query evaluates a gjson path against the JSON form of n, for example
// "children.#(name==thought)#.attrs.#(name==identity).value".
func (n *Node) Query(path string) (gjson.Result, error) {
	data, err := n.MarshalJSON()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(data, path), nil
}
