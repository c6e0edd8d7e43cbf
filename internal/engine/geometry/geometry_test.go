package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newBox() *Geometry {
	return New(DefaultConfig(), RectFromSize(Pt(100, 100), 100, 70))
}

func TestHitTest(t *testing.T) {
	g := newBox()
	tests := []struct {
		name   string
		p      Point
		inside bool
		mask   Mask
	}{
		{"center", Pt(150, 135), true, None},
		{"left edge", Pt(102, 130), true, Left},
		{"right edge", Pt(198, 130), true, Right},
		{"top edge", Pt(150, 97), true, Top},
		{"bottom edge", Pt(150, 171), true, Bottom},
		{"top left corner", Pt(101, 101), true, Left | Top},
		{"bottom right corner", Pt(200, 170), true, Right | Bottom},
		{"within sensitivity outside", Pt(96, 130), true, Left},
		{"far outside", Pt(50, 50), false, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inside, mask := g.HitTest(tt.p)
			if inside != tt.inside || mask != tt.mask {
				t.Errorf("HitTest(%v) = %v, %v, want %v, %v", tt.p, inside, mask, tt.inside, tt.mask)
			}
		})
	}
}

func TestCursorFor(t *testing.T) {
	tests := []struct {
		mask Mask
		want Cursor
	}{
		{None, CursorDefault},
		{Left, CursorLeftSide},
		{Right | Top, CursorTopRight},
		{Left | Bottom, CursorBottomLeft},
	}
	for _, tt := range tests {
		if got := CursorFor(tt.mask); got != tt.want {
			t.Errorf("CursorFor(%v) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestResizeRight(t *testing.T) {
	g := newBox()
	if !g.PointerDown(Pt(200, 130)) {
		t.Fatal("PointerDown on the right edge should start a resize")
	}
	if g.State() != Resizing {
		t.Errorf("State() = %v, want %v", g.State(), Resizing)
	}
	if !g.PointerMove(Pt(260, 130)) {
		t.Fatal("PointerMove should resize")
	}
	c, record := g.PointerUp()
	if !record {
		t.Error("a finished resize should be recorded")
	}
	if g.Width() != 160 {
		t.Errorf("Width() = %v, want 160", g.Width())
	}
	if c.Before.Box.Width() != 100 || c.After.Box.Width() != 160 {
		t.Errorf("change = %v -> %v", c.Before.Box, c.After.Box)
	}
	if g.State() != Idle {
		t.Errorf("State() = %v, want %v", g.State(), Idle)
	}
}

func TestResizeClampsToMinSize(t *testing.T) {
	g := newBox()
	g.PointerDown(Pt(200, 130))
	g.PointerMove(Pt(105, 130))
	g.PointerUp()
	if g.Width() != DefaultMinSize {
		t.Errorf("Width() = %v, want %v", g.Width(), DefaultMinSize)
	}
	if g.Height() != 70 {
		t.Errorf("Height() = %v, want 70", g.Height())
	}
}

func TestMirrorFlipsMask(t *testing.T) {
	g := newBox()
	g.PointerDown(Pt(100, 130))
	if g.Mask() != Left {
		t.Fatalf("Mask() = %v, want %v", g.Mask(), Left)
	}
	g.PointerMove(Pt(250, 130))
	if g.UL().X != 200 || g.LR().X != 250 {
		t.Errorf("box = %v, want x from 200 to 250", g.Box())
	}
	if g.Mask() != Right {
		t.Errorf("Mask() = %v, want %v", g.Mask(), Right)
	}
	g.PointerMove(Pt(270, 130))
	if g.LR().X != 270 || g.UL().X != 200 {
		t.Errorf("box = %v, dragging should continue on the flipped edge", g.Box())
	}

	v := newBox()
	v.PointerDown(Pt(150, 170))
	v.PointerMove(Pt(150, 50))
	if v.Mask() != Top || v.UL().Y != 50 || v.LR().Y != 100 {
		t.Errorf("vertical mirror: mask %v box %v", v.Mask(), v.Box())
	}
}

func TestContentClamp(t *testing.T) {
	g := newBox()
	g.SetContent(Rect{UL: Pt(110, 110), LR: Pt(150, 150)})

	g.PointerDown(Pt(200, 130))
	if g.PointerMove(Pt(130, 130)) {
		t.Error("right edge should not shrink below the content width")
	}
	if !g.PointerMove(Pt(145, 130)) {
		t.Fatal("right edge should move while the content still fits")
	}
	content, _ := g.Content()
	want := Rect{UL: Pt(105, 110), LR: Pt(145, 150)}
	if diff := cmp.Diff(want, content); diff != "" {
		t.Errorf("content should be pushed left (-want +got):\n%s", diff)
	}
	g.PointerUp()
	if g.LR().X != 145 {
		t.Errorf("LR().X = %v, want 145", g.LR().X)
	}
}

func TestCreating(t *testing.T) {
	t.Run("small drag uses defaults", func(t *testing.T) {
		g := NewAt(DefaultConfig(), Pt(50, 50))
		if g.State() != Creating {
			t.Fatalf("State() = %v, want %v", g.State(), Creating)
		}
		g.PointerMove(Pt(56, 52))
		_, record := g.PointerUp()
		if record {
			t.Error("creation should not be recorded")
		}
		if g.Width() != DefaultWidth || g.Height() != DefaultHeight {
			t.Errorf("size = %vx%v, want %vx%v", g.Width(), g.Height(), DefaultWidth, DefaultHeight)
		}
		if g.IsCreating() || g.State() != Idle {
			t.Error("creation should be one-shot")
		}
	})

	t.Run("wide drag clamps height", func(t *testing.T) {
		g := NewAt(DefaultConfig(), Pt(50, 50))
		g.PointerMove(Pt(120, 50))
		g.PointerUp()
		if g.Width() != 75 || g.Height() != DefaultMinSize {
			t.Errorf("size = %vx%v, want 75x%v", g.Width(), g.Height(), DefaultMinSize)
		}
	})

	t.Run("later resize is recorded", func(t *testing.T) {
		g := NewAt(DefaultConfig(), Pt(0, 0))
		g.PointerUp()
		g.PointerDown(g.LR())
		g.PointerMove(g.LR().Add(Pt(10, 10)))
		if _, record := g.PointerUp(); !record {
			t.Error("resize after creation should be recorded")
		}
	})
}

func TestCancelRestores(t *testing.T) {
	g := newBox()
	g.Enter()
	before := g.Frame()
	g.PointerDown(Pt(200, 170))
	g.PointerMove(Pt(300, 300))
	if !g.Cancel() {
		t.Fatal("Cancel() = false during a drag")
	}
	if diff := cmp.Diff(before, g.Frame()); diff != "" {
		t.Errorf("frame not restored (-want +got):\n%s", diff)
	}
	if g.State() != Editing {
		t.Errorf("State() = %v, want %v", g.State(), Editing)
	}
	if _, record := g.PointerUp(); record {
		t.Error("PointerUp after Cancel should not record")
	}
	if g.Cancel() {
		t.Error("Cancel() without a drag should report false")
	}
}

func TestLeaveDiscardsGesture(t *testing.T) {
	g := newBox()
	g.Enter()
	g.PointerDown(Pt(100, 130))
	g.PointerMove(Pt(20, 130))
	g.Leave()
	if g.UL().X != 100 || g.State() != Idle || g.IsEditing() {
		t.Errorf("Leave left box %v state %v", g.Box(), g.State())
	}
}

func TestMoveAndGrow(t *testing.T) {
	g := newBox()
	g.SetContent(Rect{UL: Pt(110, 110), LR: Pt(120, 120)})
	g.MoveBy(Pt(10, -10))
	if g.UL() != Pt(110, 90) {
		t.Errorf("UL() = %v, want (110, 90)", g.UL())
	}
	content, ok := g.Content()
	if !ok || content.UL != Pt(120, 100) {
		t.Errorf("content = %v, want it moved with the box", content)
	}

	if !g.GrowTo(Pt(300, 120), 5) {
		t.Fatal("GrowTo should grow the box")
	}
	if g.LR().X != 305 {
		t.Errorf("LR().X = %v, want 305", g.LR().X)
	}
	if g.GrowTo(g.Center(), 5) {
		t.Error("GrowTo of an interior point should not change the box")
	}
}

func TestConnection(t *testing.T) {
	a := New(DefaultConfig(), RectFromSize(Pt(0, 0), 100, 50))
	b := New(DefaultConfig(), RectFromSize(Pt(200, 100), 100, 50))

	from, to := a.Connection(b, true)
	if from != Pt(100, 25) || to != Pt(200, 125) {
		t.Errorf("bezier Connection = %v %v", from, to)
	}
	from, to = b.Connection(a, true)
	if from != Pt(200, 125) || to != Pt(100, 25) {
		t.Errorf("bezier Connection reversed = %v %v", from, to)
	}
	from, to = a.Connection(b, false)
	if from != Pt(50, 25) || to != Pt(250, 125) {
		t.Errorf("straight Connection = %v %v", from, to)
	}
}

func TestMaskString(t *testing.T) {
	if got := (Left | Bottom).String(); got != "left|bottom" {
		t.Errorf("got %q, want %q", got, "left|bottom")
	}
	if !(Left | Top).Has(Top) || Left.Has(Right) {
		t.Error("Has reported the wrong edges")
	}
}
