package thought

import (
	"errors"
	"strconv"

	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/persist"
	"github.com/dshills/thoughtmap/internal/theme"
)

// Attribute and child names of saved thoughts.
const (
	attrIdentity   = "identity"
	attrUL         = "ul-coords"
	attrLR         = "lr-coords"
	attrBackground = "background-color"
	attrForeground = "foreground-color"
	attrSelected   = "current_root"
	attrPrimary    = "primary_root"
	attrCursor     = "cursor"
	attrEdge       = "edge"
	attrFile       = "file"
	attrImageW     = "image_width"
	attrImageH     = "image_height"
	attrMinX       = "min_x"
	attrMinY       = "min_y"
	attrMaxX       = "max_x"
	attrMaxY       = "max_y"

	elemAttribute = "attribute"
	elemPoint     = "point"
	elemExtended  = "Extended"

	noBound = "None"
)

// ErrWrongElement is returned when a node is loaded into a thought of a
// different type.
var ErrWrongElement = errors.New("thought: element does not match thought type")

// Load creates a thought from a saved element. The thought is returned
// together with the joined errors of any fields that could not be read;
// it is nil only if the element is not a thought at all.
func Load(n *persist.Node, opts Options) (*Thought, error) {
	typ, ok := TypeForElement(n.Name)
	if !ok {
		return nil, &persist.FieldError{Element: n.Name, Field: "", Value: n.Name, Err: ErrWrongElement}
	}
	t := NewWithBox(typ, geometry.Rect{}, opts)
	err := t.LoadFromNode(n)
	return t, err
}

// SerializeToNode saves the thought as an element.
func (t *Thought) SerializeToNode() *persist.Node {
	n := persist.NewNode(t.Type().Element())
	n.SetInt(attrIdentity, t.id)
	ul, lr := t.geom.UL(), t.geom.LR()
	n.SetCoords(attrUL, ul.X, ul.Y)
	n.SetCoords(attrLR, lr.X, lr.Y)
	n.Set(attrBackground, t.background.String())
	if t.Type() != TypeImage {
		n.Set(attrForeground, t.foreground.String())
	}
	n.SetFlag(attrSelected, t.selected)
	n.SetFlag(attrPrimary, t.primary)

	switch c := t.content.(type) {
	case *TextContent:
		serializeText(n, c)
	case *LabelContent:
		serializeText(n, c.TextContent)
		n.SetBool(attrEdge, c.Edge)
	case *DrawingContent:
		serializeDrawing(n, t.geom, c)
	case *ImageContent:
		n.Set(attrFile, c.File)
		n.SetInt(attrImageW, c.Width)
		n.SetInt(attrImageH, c.Height)
	}
	if t.extended != "" {
		n.AppendNew(elemExtended).Text = t.extended
	}
	return n
}

func serializeText(n *persist.Node, c *TextContent) {
	n.SetInt(attrCursor, c.CaretByteIndex())
	n.Text = c.Text()
	for _, r := range c.Attrs().Ranges() {
		a := n.AppendNew(elemAttribute)
		name := r.Kind.String()
		if r.Kind == attr.Italic {
			name = "italics"
		}
		a.Set("type", name)
		a.SetInt("start", c.ByteIndexFromIndex(r.Start))
		a.SetInt("end", c.ByteIndexFromIndex(r.End))
		if r.Kind == attr.Font {
			a.Set("value", r.Desc)
		}
	}
}

func serializeDrawing(n *persist.Node, g *geometry.Geometry, c *DrawingContent) {
	if r, ok := g.Content(); ok {
		n.Set(attrMinX, strconv.FormatFloat(r.UL.X, 'f', -1, 64))
		n.Set(attrMinY, strconv.FormatFloat(r.UL.Y, 'f', -1, 64))
		n.Set(attrMaxX, strconv.FormatFloat(r.LR.X, 'f', -1, 64))
		n.Set(attrMaxY, strconv.FormatFloat(r.LR.Y, 'f', -1, 64))
	} else {
		for _, name := range []string{attrMinX, attrMinY, attrMaxX, attrMaxY} {
			n.Set(name, noBound)
		}
	}
	for _, p := range c.points {
		pn := n.AppendNew(elemPoint)
		pn.SetCoords("coords", p.Pos.X, p.Pos.Y)
		pn.SetInt("type", int(p.Kind))
		pn.Set("color", p.Color.String())
	}
}

// LoadFromNode replaces the state of the thought with a saved element.
// Fields that cannot be read are skipped; the problems are returned
// joined. Nothing is recorded in the history.
func (t *Thought) LoadFromNode(n *persist.Node) error {
	if n.Name != t.Type().Element() {
		return &persist.FieldError{Element: n.Name, Value: t.Type().Element(), Err: ErrWrongElement}
	}
	var errs []error
	keep := func(err error) bool {
		if err != nil {
			errs = append(errs, err)
			return false
		}
		return true
	}

	if id, err := n.Int(attrIdentity); keep(err) {
		t.id = id
	}
	ulx, uly, errUL := n.Coords(attrUL)
	lrx, lry, errLR := n.Coords(attrLR)
	okUL, okLR := keep(errUL), keep(errLR)
	if okUL && okLR {
		t.geom.SetBox(geometry.Rect{UL: geometry.Pt(ulx, uly), LR: geometry.Pt(lrx, lry)})
	}
	if c, ok, err := color(n, attrBackground); keep(err) && ok {
		t.background = c
	}
	if c, ok, err := color(n, attrForeground); keep(err) && ok {
		t.foreground = c
	}
	t.selected = flag(n, attrSelected)
	t.primary = flag(n, attrPrimary)

	switch c := t.content.(type) {
	case *TextContent:
		errs = append(errs, loadText(n, c)...)
	case *LabelContent:
		errs = append(errs, loadText(n, c.TextContent)...)
		if n.Has(attrEdge) {
			if edge, err := n.Bool(attrEdge); keep(err) {
				c.Edge = edge
			}
		}
	case *DrawingContent:
		errs = append(errs, loadDrawing(n, t.geom, c)...)
	case *ImageContent:
		c.File = n.Value(attrFile)
		if w, err := n.Int(attrImageW); keep(err) {
			c.Width = w
		}
		if h, err := n.Int(attrImageH); keep(err) {
			c.Height = h
		}
	}
	t.extended = ""
	for _, cn := range n.Children {
		switch {
		case cn.Name == elemExtended:
			t.extended = cn.Text
		case !t.knownChild(cn.Name):
			errs = append(errs, &persist.FieldError{Element: n.Name, Field: cn.Name, Err: errUnknownChild})
		}
	}
	t.title = t.content.title(t)

	err := errors.Join(errs...)
	if err != nil {
		t.logger.Warn("loaded %s with %d bad fields", n.Name, len(errs))
	}
	return err
}

// knownChild reports whether name is a child element the content reads.
func (t *Thought) knownChild(name string) bool {
	switch t.content.(type) {
	case *TextContent, *LabelContent:
		return name == elemAttribute
	case *DrawingContent:
		return name == elemPoint
	}
	return false
}

func flag(n *persist.Node, name string) bool {
	v, ok := n.Get(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func color(n *persist.Node, name string) (theme.Color, bool, error) {
	v, ok := n.Get(name)
	if !ok {
		return theme.Color{}, false, nil
	}
	c, err := theme.ParseColor(v)
	if err != nil {
		return theme.Color{}, false, &persist.FieldError{Element: n.Name, Field: name, Value: v, Err: err}
	}
	return c, true, nil
}

func loadText(n *persist.Node, c *TextContent) []error {
	var errs []error
	c.Reset(n.Text, nil, 0)

	var ranges []attr.Range
	for _, an := range n.ChildrenNamed(elemAttribute) {
		typ := an.Value("type")
		kind, ok := attr.ParseKind(typ)
		if !ok {
			errs = append(errs, &persist.FieldError{Element: an.Name, Field: "type", Value: typ, Err: errUnknownStyle})
			continue
		}
		start, err := an.Int("start")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		end, err := an.Int("end")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		st := attr.Style{Kind: kind}
		if kind == attr.Font {
			st.Desc = an.Value("value")
			if st.Desc == "" {
				errs = append(errs, &persist.FieldError{Element: an.Name, Field: "value", Err: persist.ErrMissingField})
				continue
			}
		}
		ranges = append(ranges, attr.NewRange(st, c.IndexFromByteIndex(start), c.IndexFromByteIndex(end)))
	}

	caret := c.Len()
	if n.Has(attrCursor) {
		if bi, err := n.Int(attrCursor); err != nil {
			errs = append(errs, err)
		} else {
			caret = c.IndexFromByteIndex(bi)
		}
	}
	c.Reset(n.Text, ranges, caret)
	return errs
}

var (
	errUnknownStyle = errors.New("unknown style")
	errUnknownChild = errors.New("unknown child element")
	errPointKind    = errors.New("point kind out of range")
)

func loadDrawing(n *persist.Node, g *geometry.Geometry, c *DrawingContent) []error {
	var errs []error
	g.ClearContent()
	if n.Value(attrMinX) != noBound && n.Has(attrMinX) {
		var b [4]float64
		ok := true
		for i, name := range []string{attrMinX, attrMinY, attrMaxX, attrMaxY} {
			f, err := n.Float(name)
			if err != nil {
				errs = append(errs, err)
				ok = false
				continue
			}
			b[i] = f
		}
		if ok {
			g.SetContent(geometry.Rect{UL: geometry.Pt(b[0], b[1]), LR: geometry.Pt(b[2], b[3])})
		}
	}

	c.points = c.points[:0]
	for _, pn := range n.ChildrenNamed(elemPoint) {
		x, y, err := pn.Coords("coords")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		kind, err := pn.Int("type")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if kind < int(PointContinue) || kind > int(PointBegin) {
			errs = append(errs, &persist.FieldError{Element: pn.Name, Field: "type", Value: strconv.Itoa(kind), Err: errPointKind})
			continue
		}
		p := DrawPoint{Pos: geometry.Pt(x, y), Kind: PointKind(kind)}
		if col, ok, err := color(pn, "color"); err != nil {
			errs = append(errs, err)
		} else if ok {
			p.Color = col
		}
		c.points = append(c.points, p)
	}
	return errs
}
