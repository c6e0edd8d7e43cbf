package thought

import (
	"fmt"
	"math"
	"slices"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/theme"
)

// PointKind says how a point joins the stroke it belongs to.
type PointKind uint8

const (
	PointContinue PointKind = iota
	PointEnd
	PointBegin
)

func (k PointKind) String() string {
	switch k {
	case PointContinue:
		return "continue"
	case PointEnd:
		return "end"
	case PointBegin:
		return "begin"
	}
	return fmt.Sprintf("point(%d)", k)
}

// DrawPoint is one sample of a freehand stroke.
type DrawPoint struct {
	Pos   geometry.Point
	Kind  PointKind
	Color theme.Color
}

const (
	smoothSamples = 5
	growPad       = 5
	eraseRadius   = 4

	boundsLead  = 10
	boundsTrail = 5
)

// DrawingContent is a set of freehand strokes. Pointer presses while the
// thought is being edited draw; with Shift held they erase.
type DrawingContent struct {
	// Smooth averages every few motion samples into one point.
	Smooth bool

	points []DrawPoint
	stroke *stroke
}

type strokeMode uint8

const (
	strokeDraw strokeMode = iota
	strokeErase
)

// stroke is the gesture between a press and its release.
type stroke struct {
	mode    strokeMode
	start   int
	orig    geometry.Frame
	samples []geometry.Point
	ops     []eraseOp
}

// eraseOp is one point inserted or removed by the eraser.
type eraseOp struct {
	insert bool
	index  int
	point  DrawPoint
}

func newDrawing() *DrawingContent {
	return &DrawingContent{Smooth: true}
}

// Type implements Content.
func (c *DrawingContent) Type() Type { return TypeDrawing }

// Points returns a copy of the stroke points.
func (c *DrawingContent) Points() []DrawPoint { return slices.Clone(c.points) }

func (c *DrawingContent) title(t *Thought) string { return fmt.Sprintf("Drawing #%d", t.id) }
func (c *DrawingContent) canBeParent() bool       { return true }

func (c *DrawingContent) editCursor() geometry.Cursor { return geometry.CursorPencil }

func (c *DrawingContent) enter(*Thought) {}
func (c *DrawingContent) leave(*Thought) {}

func (c *DrawingContent) created(*Thought, bool) {}
func (c *DrawingContent) resized(*Thought)       {}

func (c *DrawingContent) moveBy(d geometry.Point) {
	for i := range c.points {
		c.points[i].Pos = c.points[i].Pos.Add(d)
	}
}

func (c *DrawingContent) pointerDown(t *Thought, ev PointerEvent, p geometry.Point) bool {
	if c.stroke != nil || !ev.primary() || !t.IsEditing() {
		return false
	}
	s := &stroke{start: len(c.points), orig: t.geom.Frame()}
	c.stroke = s
	if ev.shift() {
		s.mode = strokeErase
		c.eraseAt(p)
	} else {
		c.add(t, p)
	}
	t.publish(TopicViewUpdate, nil)
	return true
}

func (c *DrawingContent) pointerMove(t *Thought, _ PointerEvent, p geometry.Point) bool {
	s := c.stroke
	if s == nil {
		return false
	}
	if s.mode == strokeErase {
		if c.eraseAt(p) {
			t.publish(TopicViewUpdate, nil)
		}
		return true
	}
	if c.Smooth {
		s.samples = append(s.samples, p)
		if len(s.samples) < smoothSamples {
			return true
		}
		p = average(s.samples)
		s.samples = s.samples[:0]
	}
	c.add(t, p)
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
	return true
}

func (c *DrawingContent) pointerUp(t *Thought, _ PointerEvent, _ geometry.Point) bool {
	s := c.stroke
	if s == nil {
		return false
	}
	c.stroke = nil
	if s.mode == strokeErase {
		c.recordErase(t, s.ops)
		return true
	}
	if len(s.samples) > 0 {
		c.add(t, average(s.samples))
	}
	if len(c.points) > s.start {
		c.points[len(c.points)-1].Kind = PointEnd
		c.recordDraw(t, s.start, slices.Clone(c.points[s.start:]), s.orig, t.geom.Frame())
	}
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
	return true
}

func (c *DrawingContent) cancel(t *Thought) bool {
	s := c.stroke
	if s == nil {
		return false
	}
	c.stroke = nil
	if s.mode == strokeErase {
		c.replay(s.ops, history.Undo)
	} else {
		c.points = c.points[:s.start]
		t.geom.Restore(s.orig)
	}
	return true
}

// add appends p to the current stroke, growing the box and the content
// bounds around it.
func (c *DrawingContent) add(t *Thought, p geometry.Point) {
	kind := PointContinue
	if len(c.points) == 0 || c.points[len(c.points)-1].Kind == PointEnd {
		kind = PointBegin
	}
	c.points = append(c.points, DrawPoint{Pos: p, Kind: kind, Color: t.foreground})
	t.geom.GrowTo(p, growPad)
	extendBounds(t.geom, p)
}

func extendBounds(g *geometry.Geometry, p geometry.Point) {
	r, ok := g.Content()
	if !ok {
		g.SetContent(geometry.Rect{
			UL: geometry.Pt(p.X-boundsLead, p.Y-boundsLead),
			LR: geometry.Pt(p.X+boundsTrail, p.Y+boundsTrail),
		})
		return
	}
	if p.X < r.UL.X {
		r.UL.X = p.X - boundsLead
	} else if p.X > r.LR.X {
		r.LR.X = p.X + boundsTrail
	}
	if p.Y < r.UL.Y {
		r.UL.Y = p.Y - boundsLead
	} else if p.Y > r.LR.Y {
		r.LR.Y = p.Y + boundsTrail
	}
	g.SetContent(r)
}

func average(ps []geometry.Point) geometry.Point {
	var sum geometry.Point
	for _, p := range ps {
		sum = sum.Add(p)
	}
	n := float64(len(ps))
	return geometry.Pt(sum.X/n, sum.Y/n)
}

// connected reports whether point k is joined to point k-1.
func (c *DrawingContent) connected(k int) bool {
	return k > 0 && c.points[k].Kind != PointBegin && c.points[k-1].Kind != PointEnd
}

// eraseAt removes the points within the eraser radius of e. Where a
// stroke enters or leaves the eraser, an end or begin point is placed on
// the eraser's rim so the rest of the stroke survives. Segments passing
// through the eraser without a point inside it are split the same way.
func (c *DrawingContent) eraseAt(e geometry.Point) bool {
	s := c.stroke
	r2 := float64(eraseRadius * eraseRadius)
	changed := false

	for i := 0; i < len(c.points); {
		if c.points[i].Pos.Dist2(e) < r2 {
			j := i
			for j < len(c.points) && c.points[j].Pos.Dist2(e) < r2 {
				j++
			}
			var prev, next *DrawPoint
			if c.connected(i) {
				p := c.points[i-1]
				prev = &p
			}
			if j < len(c.points) && c.connected(j) {
				n := c.points[j]
				next = &n
			}
			for k := i; k < j; k++ {
				s.remove(c, i)
			}
			if prev != nil {
				s.insert(c, i, DrawPoint{Pos: rim(prev.Pos, e), Kind: PointEnd, Color: prev.Color})
				i++
			}
			if next != nil {
				s.insert(c, i, DrawPoint{Pos: rim(next.Pos, e), Kind: PointBegin, Color: next.Color})
				i++
			}
			changed = true
			continue
		}

		if i+1 < len(c.points) && c.connected(i+1) && c.points[i+1].Pos.Dist2(e) >= r2 {
			a, b := c.points[i], c.points[i+1]
			if t0, t1, ok := crossing(a.Pos, b.Pos, e, eraseRadius); ok {
				s.insert(c, i+1, DrawPoint{Pos: lerp(a.Pos, b.Pos, t0), Kind: PointEnd, Color: a.Color})
				s.insert(c, i+2, DrawPoint{Pos: lerp(a.Pos, b.Pos, t1), Kind: PointBegin, Color: b.Color})
				i += 3
				changed = true
				continue
			}
		}
		i++
	}
	return changed
}

// rim returns the point where the line from q toward center e meets the
// eraser circle.
func rim(q, e geometry.Point) geometry.Point {
	d := math.Sqrt(q.Dist2(e)) - eraseRadius
	a := math.Atan2(e.Y-q.Y, e.X-q.X)
	return geometry.Pt(q.X+d*math.Cos(a), q.Y+d*math.Sin(a))
}

// crossing returns the parameters along a->b where the segment enters and
// leaves the circle of radius r around e. ok is false unless both lie
// strictly inside the segment.
func crossing(a, b, e geometry.Point, r float64) (t0, t1 float64, ok bool) {
	d := b.Sub(a)
	f := a.Sub(e)
	qa := d.X*d.X + d.Y*d.Y
	qb := 2 * (f.X*d.X + f.Y*d.Y)
	qc := f.X*f.X + f.Y*f.Y - r*r
	disc := qb*qb - 4*qa*qc
	if qa == 0 || disc <= 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t0 = (-qb - sq) / (2 * qa)
	t1 = (-qb + sq) / (2 * qa)
	return t0, t1, t0 > 0 && t1 < 1
}

func lerp(a, b geometry.Point, t float64) geometry.Point {
	return geometry.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
}

func (s *stroke) insert(c *DrawingContent, i int, p DrawPoint) {
	c.points = slices.Insert(c.points, i, p)
	s.ops = append(s.ops, eraseOp{insert: true, index: i, point: p})
}

func (s *stroke) remove(c *DrawingContent, i int) {
	p := c.points[i]
	c.points = slices.Delete(c.points, i, i+1)
	s.ops = append(s.ops, eraseOp{index: i, point: p})
}

// replay applies ops forward for Redo and backward, inverted, for Undo.
func (c *DrawingContent) replay(ops []eraseOp, mode history.Mode) {
	apply := func(op eraseOp, insert bool) {
		if insert {
			c.points = slices.Insert(c.points, op.index, op.point)
		} else {
			c.points = slices.Delete(c.points, op.index, op.index+1)
		}
	}
	if mode == history.Undo {
		for i := len(ops) - 1; i >= 0; i-- {
			apply(ops[i], !ops[i].insert)
		}
		return
	}
	for _, op := range ops {
		apply(op, op.insert)
	}
}

func (c *DrawingContent) recordDraw(t *Thought, start int, added []DrawPoint, before, after geometry.Frame) {
	if t.hist == nil {
		return
	}
	desc := fmt.Sprintf("draw %d points", len(added))
	t.hist.Add(history.NewAction(t, history.KindDraw, desc, func(mode history.Mode) error {
		if len(c.points) < start {
			return fmt.Errorf("draw: %d points, stroke starts at %d", len(c.points), start)
		}
		if mode == history.Undo {
			c.points = c.points[:start]
			t.geom.Restore(before)
		} else {
			c.points = append(c.points[:start], added...)
			t.geom.Restore(after)
		}
		t.publish(TopicLinksUpdate, nil)
		t.publish(TopicViewUpdate, nil)
		return nil
	}))
}

func (c *DrawingContent) recordErase(t *Thought, ops []eraseOp) {
	if t.hist == nil || len(ops) == 0 {
		return
	}
	desc := fmt.Sprintf("erase %d changes", len(ops))
	t.hist.Add(history.NewAction(t, history.KindErase, desc, func(mode history.Mode) error {
		c.replay(ops, mode)
		t.publish(TopicViewUpdate, nil)
		return nil
	}))
}
