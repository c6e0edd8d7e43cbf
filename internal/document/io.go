package document

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/persist"
	"github.com/dshills/thoughtmap/internal/thought"
)

const (
	elemMap  = "MMap"
	elemLink = "link"

	attrTitle       = "title"
	attrMode        = "mode"
	attrScale       = "scale_factor"
	attrTranslation = "translation"
	attrParent      = "parent"
	attrChild       = "child"
)

// SerializeToNode saves the map as an <MMap> element holding every
// thought followed by the links.
func (m *Map) SerializeToNode() *persist.Node {
	n := persist.NewNode(elemMap)
	n.Set(attrTitle, m.Title)
	n.SetInt(attrMode, int(m.mode))
	n.Set(attrScale, strconv.FormatFloat(m.ScaleFactor, 'f', -1, 64))
	n.SetCoords(attrTranslation, m.Translation.X, m.Translation.Y)
	for _, t := range m.thoughts {
		n.Append(t.SerializeToNode())
	}
	for _, l := range m.links {
		n.AppendNew(elemLink).
			SetInt(attrParent, l.Parent.ID()).
			SetInt(attrChild, l.Child.ID())
	}
	return n
}

// FromNode builds a map from an <MMap> element. Bad fields and unknown
// elements are skipped and reported in the joined error; the map is nil
// only when n is not a map at all.
func FromNode(n *persist.Node, opts Options) (*Map, error) {
	if n.Name != elemMap {
		return nil, fmt.Errorf("%w: <%s>", ErrNotAMap, n.Name)
	}
	m := New(opts)
	var errs []error
	m.Title = n.Value(attrTitle)
	if n.Has(attrMode) {
		if mode, err := n.Int(attrMode); err != nil {
			errs = append(errs, err)
		} else {
			m.mode = Mode(mode)
		}
	}
	if n.Has(attrScale) {
		if f, err := n.Float(attrScale); err != nil {
			errs = append(errs, err)
		} else {
			m.ScaleFactor = f
		}
	}
	if n.Has(attrTranslation) {
		if x, y, err := n.Coords(attrTranslation); err != nil {
			errs = append(errs, err)
		} else {
			m.Translation = geometry.Pt(x, y)
		}
	}

	var links []*persist.Node
	for _, c := range n.Children {
		if c.Name == elemLink {
			links = append(links, c)
			continue
		}
		if _, ok := thought.TypeForElement(c.Name); !ok {
			m.logger.Warn("skipping unknown element <%s>", c.Name)
			errs = append(errs, &persist.FieldError{Element: c.Name, Err: thought.ErrWrongElement})
			continue
		}
		t, err := thought.Load(c, m.thoughtOptions(0))
		if err != nil {
			m.logger.Warn("thought %d: %v", t.ID(), err)
			errs = append(errs, err)
		}
		if _, dup := m.Thought(t.ID()); dup {
			errs = append(errs, &persist.FieldError{Element: c.Name, Field: "identity", Value: strconv.Itoa(t.ID()), Err: errDuplicateID})
			continue
		}
		m.thoughts = append(m.thoughts, t)
		m.nextID = max(m.nextID, t.ID()+1)
		if t.IsPrimary() {
			m.SetPrimary(t)
		}
		if t.IsSelected() {
			m.Select(t)
		}
	}
	if m.primary == nil && len(m.thoughts) > 0 {
		m.SetPrimary(m.thoughts[0])
	}

	for _, ln := range links {
		if err := m.loadLink(ln); err != nil {
			errs = append(errs, err)
		}
	}
	return m, errors.Join(errs...)
}

var errDuplicateID = errors.New("duplicate identity")

func (m *Map) loadLink(n *persist.Node) error {
	pid, err := n.Int(attrParent)
	if err != nil {
		return err
	}
	cid, err := n.Int(attrChild)
	if err != nil {
		return err
	}
	parent, ok := m.Thought(pid)
	if !ok {
		return &persist.FieldError{Element: n.Name, Field: attrParent, Value: strconv.Itoa(pid), Err: ErrUnknownThought}
	}
	child, ok := m.Thought(cid)
	if !ok {
		return &persist.FieldError{Element: n.Name, Field: attrChild, Value: strconv.Itoa(cid), Err: ErrUnknownThought}
	}
	if err := m.Link(parent, child); err != nil {
		return &persist.FieldError{Element: n.Name, Field: attrParent, Value: strconv.Itoa(pid), Err: err}
	}
	return nil
}

// WriteXML saves the map as an XML document.
func (m *Map) WriteXML(w io.Writer) error {
	return persist.WriteXML(w, m.SerializeToNode())
}

// ReadXML loads a map from an XML document. See FromNode for how bad
// input is reported.
func ReadXML(r io.Reader, opts Options) (*Map, error) {
	n, err := persist.ReadXML(r)
	if err != nil {
		return nil, err
	}
	return FromNode(n, opts)
}

// MarshalJSON encodes the map as the JSON form of its node tree.
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.SerializeToNode().MarshalJSON()
}

// ReadJSON loads a map from the JSON form of its node tree.
func ReadJSON(data []byte, opts Options) (*Map, error) {
	var n persist.Node
	if err := n.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return FromNode(&n, opts)
}
