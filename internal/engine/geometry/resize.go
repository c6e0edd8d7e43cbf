package geometry

import "math"

// HitTest reports whether p is on the thought and which edges lie within
// Sensitivity of it. While a resize is in progress the dragged mask is
// returned unchanged. The result is remembered as the hover mask.
func (g *Geometry) HitTest(p Point) (inside bool, mask Mask) {
	if g.pressed {
		return true, g.mask
	}
	s := g.cfg.Sensitivity
	b := g.box
	if !b.Contains(p, s) {
		g.mask = None
		return false, None
	}

	withinY := p.Y >= b.UL.Y && p.Y <= b.LR.Y
	withinX := p.X >= b.UL.X && p.X <= b.LR.X
	switch {
	case math.Abs(p.X-b.UL.X) <= s && withinY:
		mask |= Left
	case math.Abs(p.X-b.LR.X) <= s && withinY:
		mask |= Right
	}
	switch {
	case math.Abs(p.Y-b.UL.Y) <= s && withinX:
		mask |= Top
	case math.Abs(p.Y-b.LR.Y) <= s && withinX:
		mask |= Bottom
	}
	g.mask = mask
	return true, mask
}

// Cursor returns the pointer shape for the current mask and state.
func (g *Geometry) Cursor() Cursor {
	if g.mask != None {
		return CursorFor(g.mask)
	}
	return CursorDefault
}

// PointerDown starts a resize if p is on an edge. It reports whether the
// pointer was taken for a resize.
func (g *Geometry) PointerDown(p Point) bool {
	if g.pressed {
		return true
	}
	if _, mask := g.HitTest(p); mask == None {
		return false
	}
	g.pressed = true
	g.orig = g.Frame()
	g.state = Resizing
	return true
}

// Dragging reports whether a resize or creation drag is in progress.
func (g *Geometry) Dragging() bool {
	return g.pressed && g.mask != None
}

// PointerMove drags the active edges to p. An edge never moves past the
// point where the content would no longer fit; when it passes over the
// content the content is pushed along. It reports whether the box changed.
func (g *Geometry) PointerMove(p Point) bool {
	if !g.Dragging() {
		return false
	}

	moved := false
	cw := g.content.Width()
	ch := g.content.Height()

	switch {
	case g.mask&Left != 0:
		if !g.hasContent || p.X < g.box.LR.X-cw {
			if g.hasContent && p.X > g.content.UL.X {
				g.MoveContentBy(Point{X: p.X - g.content.UL.X})
			}
			g.box.UL.X = p.X
			moved = true
		}
	case g.mask&Right != 0:
		if !g.hasContent || p.X > g.box.UL.X+cw {
			if g.hasContent && p.X < g.content.LR.X {
				g.MoveContentBy(Point{X: p.X - g.content.LR.X})
			}
			g.box.LR.X = p.X
			moved = true
		}
	}
	switch {
	case g.mask&Top != 0:
		if !g.hasContent || p.Y < g.box.LR.Y-ch {
			if g.hasContent && p.Y > g.content.UL.Y {
				g.MoveContentBy(Point{Y: p.Y - g.content.UL.Y})
			}
			g.box.UL.Y = p.Y
			moved = true
		}
	case g.mask&Bottom != 0:
		if !g.hasContent || p.Y > g.box.UL.Y+ch {
			if g.hasContent && p.Y < g.content.LR.Y {
				g.MoveContentBy(Point{Y: p.Y - g.content.LR.Y})
			}
			g.box.LR.Y = p.Y
			moved = true
		}
	}
	if !moved {
		return false
	}

	if g.box.UL.X > g.box.LR.X {
		g.box.UL.X, g.box.LR.X = g.box.LR.X, g.box.UL.X
		g.mask = g.mask.flipHorizontal()
	}
	if g.box.UL.Y > g.box.LR.Y {
		g.box.UL.Y, g.box.LR.Y = g.box.LR.Y, g.box.UL.Y
		g.mask = g.mask.flipVertical()
	}
	return true
}

// PointerUp ends a drag. A creation drag that reached MinSize on either
// axis is clamped up to MinSize; otherwise the default size is used, and
// the thought leaves Creating for good. Any other drag clamps both sides
// up to MinSize. The returned change is recordable only for a resize, not
// for creation, and only when the frame actually changed.
func (g *Geometry) PointerUp() (c Change, record bool) {
	if !g.pressed {
		return Change{}, false
	}
	g.pressed = false
	g.mask = None

	w, h := g.box.Width(), g.box.Height()
	if g.creating {
		if w >= g.cfg.MinSize || h >= g.cfg.MinSize {
			w, h = max(w, g.cfg.MinSize), max(h, g.cfg.MinSize)
		} else {
			w, h = g.cfg.DefaultWidth, g.cfg.DefaultHeight
		}
		g.box = RectFromSize(g.box.UL, w, h)
		g.creating = false
		g.state = g.restState()
		return Change{Before: g.orig, After: g.Frame()}, false
	}

	if w < g.cfg.MinSize || h < g.cfg.MinSize {
		g.box = RectFromSize(g.box.UL, max(w, g.cfg.MinSize), max(h, g.cfg.MinSize))
	}
	g.state = g.restState()
	c = Change{Before: g.orig, After: g.Frame()}
	return c, c.Changed()
}

// Cancel aborts a drag in progress and restores the frame captured when it
// started. A cancelled creation keeps Creating so the next drag sizes it.
func (g *Geometry) Cancel() bool {
	if !g.pressed {
		return false
	}
	g.Restore(g.orig)
	g.pressed = false
	g.mask = None
	g.state = g.restState()
	return true
}

// Connection returns the endpoints of a link from g to other. With bezier
// links the horizontal ends sit on the facing edges; otherwise both ends
// are box centers.
func (g *Geometry) Connection(other *Geometry, bezier bool) (from, to Point) {
	a, b := g.box, other.box
	from.Y = a.Center().Y
	to.Y = b.Center().Y
	if bezier {
		if b.UL.X > a.LR.X {
			from.X, to.X = a.LR.X, b.UL.X
		} else {
			from.X, to.X = a.UL.X, b.LR.X
		}
		return from, to
	}
	from.X = a.Center().X
	to.X = b.Center().X
	return from, to
}
