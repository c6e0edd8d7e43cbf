package thought

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/event"
	"github.com/dshills/thoughtmap/internal/theme"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) topics() []event.Topic {
	out := make([]event.Topic, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Topic)
	}
	return out
}

func (r *recorder) last(topic event.Topic) (event.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Topic == topic {
			return r.events[i], true
		}
	}
	return event.Event{}, false
}

func testOptions(t *testing.T) (Options, *recorder) {
	t.Helper()
	rec := &recorder{}
	em := event.NewEmitter()
	if _, err := em.Subscribe("thought.**", func(ev event.Event) { rec.events = append(rec.events, ev) }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	return Options{
		Identity: 1,
		History:  history.New(0),
		Emitter:  em,
		Theme:    theme.Default(),
		Geometry: geometry.DefaultConfig(),
	}, rec
}

func newEditing(t *testing.T, typ Type) (*Thought, *recorder) {
	t.Helper()
	opts, rec := testOptions(t)
	th := NewWithBox(typ, geometry.RectFromSize(geometry.Pt(0, 0), 200, 100), opts)
	th.Enter()
	return th, rec
}

func key(k tcell.Key, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, mod)
}

func typeText(t *testing.T, th *Thought, s string) {
	t.Helper()
	for _, r := range s {
		if !th.ProcessKeyPress(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)) {
			t.Fatalf("ProcessKeyPress(%q) = false", r)
		}
	}
}

func TestTypeAndBackspace(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	typeText(t, th, "Hello")
	th.ProcessKeyPress(key(tcell.KeyBackspace2, tcell.ModNone))

	if got := th.Text(); got != "Hell" {
		t.Errorf("Text() = %q, want %q", got, "Hell")
	}
	if got := th.Title(); got != "Hell" {
		t.Errorf("Title() = %q, want %q", got, "Hell")
	}
	ev, ok := rec.last(TopicTitleChanged)
	if title, _ := event.PayloadAs[string](ev); !ok || title != "Hell" {
		t.Errorf("last title event = %q, want %q", title, "Hell")
	}

	h := th.hist
	for i := 0; i < 2; i++ {
		if _, err := h.Undo(); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	if got := th.Text(); got != "Hell" {
		t.Errorf("after two undos Text() = %q, want %q", got, "Hell")
	}
	if info, ok := h.PeekRedo(); !ok || info.Target != th {
		t.Errorf("redo target = %v, want the thought", info.Target)
	}
}

func TestKeyNavigation(t *testing.T) {
	th, _ := newEditing(t, TypeText)
	typeText(t, th, "ab")
	c := th.Content().(*TextContent)

	th.ProcessKeyPress(key(tcell.KeyLeft, tcell.ModNone))
	if c.Caret() != 1 {
		t.Errorf("after Left caret = %d, want 1", c.Caret())
	}
	th.ProcessKeyPress(key(tcell.KeyHome, tcell.ModShift))
	if start, end := c.Selection(); start != 0 || end != 1 {
		t.Errorf("Shift+Home selection = [%d,%d), want [0,1)", start, end)
	}
	th.ProcessKeyPress(key(tcell.KeyCtrlA, tcell.ModCtrl))
	if c.SelectedText() != "ab" {
		t.Errorf("Ctrl+A selected %q, want %q", c.SelectedText(), "ab")
	}
	th.ProcessKeyPress(key(tcell.KeyEnter, tcell.ModNone))
	if th.Text() != "\n" {
		t.Errorf("Enter over a selection: Text() = %q, want newline", th.Text())
	}
}

func TestRTLSwapsArrows(t *testing.T) {
	opts, _ := testOptions(t)
	opts.RTL = true
	th := NewWithBox(TypeText, geometry.RectFromSize(geometry.Pt(0, 0), 200, 100), opts)
	th.Enter()
	typeText(t, th, "ab")
	c := th.Content().(*TextContent)
	c.SetCaret(1)

	th.ProcessKeyPress(key(tcell.KeyLeft, tcell.ModNone))
	if c.Caret() != 2 {
		t.Errorf("RTL Left: caret = %d, want 2", c.Caret())
	}
	th.ProcessKeyPress(key(tcell.KeyRight, tcell.ModNone))
	th.ProcessKeyPress(key(tcell.KeyRight, tcell.ModNone))
	if c.Caret() != 0 {
		t.Errorf("RTL Right: caret = %d, want 0", c.Caret())
	}
}

func TestKeysNeedEditing(t *testing.T) {
	opts, _ := testOptions(t)
	th := NewWithBox(TypeText, geometry.RectFromSize(geometry.Pt(0, 0), 200, 100), opts)
	if th.ProcessKeyPress(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("a key should be ignored while not editing")
	}
	th.Enter()
	if th.ProcessKeyPress(key(tcell.KeyF1, tcell.ModNone)) {
		t.Error("unbound key should not be used")
	}
	if !th.ProcessKeyPress(key(tcell.KeyEscape, tcell.ModNone)) || th.IsEditing() {
		t.Error("Escape should leave editing")
	}
}

func TestNonInsertKeyClearsTypingStyles(t *testing.T) {
	th, _ := newEditing(t, TypeText)
	typeText(t, th, "ab")
	th.SetBold(true)
	c := th.Content().(*TextContent)
	if len(c.Attrs().Pending()) != 1 {
		t.Fatalf("pending = %v, want one bold", c.Attrs().Pending())
	}
	th.ProcessKeyPress(key(tcell.KeyLeft, tcell.ModNone))
	if len(c.Attrs().Pending()) != 0 {
		t.Errorf("pending after Left = %v, want none", c.Attrs().Pending())
	}
}

func TestWordDelete(t *testing.T) {
	th, _ := newEditing(t, TypeText)
	typeText(t, th, "one two")
	th.ProcessKeyPress(key(tcell.KeyBackspace2, tcell.ModCtrl))
	if got := th.Text(); got != "one " {
		t.Errorf("Text() = %q, want %q", got, "one ")
	}
}

func TestPointerPositionsCaret(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	th.Insert("Hello")
	c := th.Content().(*TextContent)

	press := PointerEvent{Buttons: tcell.Button1}
	if !th.ProcessPointerDown(press, geometry.Pt(5+2*8, 9)) {
		t.Fatal("ProcessPointerDown() = false inside the text")
	}
	if c.Caret() != 2 {
		t.Errorf("caret = %d, want 2", c.Caret())
	}
	th.ProcessPointerMove(press, geometry.Pt(5+4*8, 9))
	th.ProcessPointerUp(PointerEvent{}, geometry.Pt(5+4*8, 9))
	if got := c.SelectedText(); got != "ll" {
		t.Errorf("drag selected %q, want %q", got, "ll")
	}
	ev, _ := rec.last(TopicSelectionChanged)
	if sel, _ := event.PayloadAs[Selection](ev); sel.Text != "ll" {
		t.Errorf("selection event = %+v", sel)
	}

	th.ProcessPointerDown(PointerEvent{Buttons: tcell.Button1, DoubleClick: true}, geometry.Pt(20, 9))
	if c.SelectedText() != "Hello" || c.Caret() != 5 {
		t.Errorf("double click selected %q caret %d", c.SelectedText(), c.Caret())
	}
	th.ProcessPointerMove(press, geometry.Pt(5, 9))
	if c.SelectedText() != "Hello" {
		t.Error("motion after a double click should keep the selection")
	}
	th.ProcessPointerUp(PointerEvent{}, geometry.Pt(5, 9))
}

func TestMiddleButtonPastes(t *testing.T) {
	opts, _ := testOptions(t)
	opts.PrimarySelection = func() string { return "XY" }
	th := NewWithBox(TypeText, geometry.RectFromSize(geometry.Pt(0, 0), 200, 100), opts)
	th.Enter()
	th.Insert("ab")
	th.ProcessPointerDown(PointerEvent{Buttons: tcell.Button2}, geometry.Pt(5+8, 9))
	if got := th.Text(); got != "aXYb" {
		t.Errorf("Text() = %q, want %q", got, "aXYb")
	}
}

func TestResizeUndo(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	press := PointerEvent{Buttons: tcell.Button1}
	if !th.ProcessPointerDown(press, geometry.Pt(200, 50)) {
		t.Fatal("press on the right edge should start a resize")
	}
	th.ProcessPointerMove(press, geometry.Pt(260, 50))
	th.ProcessPointerUp(PointerEvent{}, geometry.Pt(260, 50))
	if th.Geometry().Width() != 260 {
		t.Fatalf("Width() = %v, want 260", th.Geometry().Width())
	}
	if !slices.Contains(rec.topics(), TopicLinksUpdate) {
		t.Error("a resize should publish a links update")
	}

	info, ok := th.hist.PeekUndo()
	if !ok || info.Kind != history.KindResize {
		t.Fatalf("PeekUndo() = %+v, want a resize", info)
	}
	if _, err := th.hist.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if th.Geometry().Width() != 200 {
		t.Errorf("after undo Width() = %v, want 200", th.Geometry().Width())
	}
	if _, err := th.hist.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if th.Geometry().Width() != 260 {
		t.Errorf("after redo Width() = %v, want 260", th.Geometry().Width())
	}
}

func TestResizeMethod(t *testing.T) {
	th, _ := newEditing(t, TypeText)
	if !th.Resize(150, 5) {
		t.Fatal("Resize() = false")
	}
	if th.Geometry().Width() != 150 || th.Geometry().Height() != geometry.DefaultMinSize {
		t.Errorf("size = %vx%v, want 150x%v", th.Geometry().Width(), th.Geometry().Height(), geometry.DefaultMinSize)
	}
	if th.Resize(150, 5) {
		t.Error("Resize() to the same size should report no change")
	}
	if _, err := th.hist.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if th.Geometry().Width() != 200 || th.Geometry().Height() != 100 {
		t.Errorf("after undo size = %vx%v, want 200x100", th.Geometry().Width(), th.Geometry().Height())
	}
}

func TestCreation(t *testing.T) {
	opts, rec := testOptions(t)
	th := New(TypeText, geometry.Pt(50, 50), opts)
	th.ProcessPointerMove(PointerEvent{Buttons: tcell.Button1}, geometry.Pt(52, 52))
	th.ProcessPointerUp(PointerEvent{}, geometry.Pt(52, 52))
	if th.Geometry().Width() != geometry.DefaultWidth {
		t.Errorf("Width() = %v, want %v", th.Geometry().Width(), geometry.DefaultWidth)
	}
	if th.hist.CanUndo() {
		t.Error("creation should not be undoable")
	}
	if !slices.Contains(rec.topics(), TopicFocusGrab) {
		t.Error("a created thought should ask for focus")
	}
}

func TestImageCreationUsesNaturalSize(t *testing.T) {
	opts, _ := testOptions(t)
	th := New(TypeImage, geometry.Pt(0, 0), opts)
	th.SetImage("/tmp/cat.png", 64, 48)
	th.ProcessPointerUp(PointerEvent{}, geometry.Pt(0, 0))
	if th.Geometry().Width() != 64 || th.Geometry().Height() != 48 {
		t.Errorf("size = %vx%v, want 64x48", th.Geometry().Width(), th.Geometry().Height())
	}
	if th.Title() != "cat.png" {
		t.Errorf("Title() = %q, want %q", th.Title(), "cat.png")
	}
}

func TestLabel(t *testing.T) {
	opts, _ := testOptions(t)
	th := NewWithBox(TypeLabel, geometry.RectFromSize(geometry.Pt(0, 0), 100, 30), opts)
	lc := th.Content().(*LabelContent)
	if th.CanBeParent() {
		t.Error("labels cannot be parents")
	}
	th.Enter()
	if !lc.Edge {
		t.Error("Enter should show the edge")
	}
	th.Insert("tag")
	th.Leave()
	if lc.Edge {
		t.Error("Leave should hide the edge")
	}
	if th.Title() != "tag" {
		t.Errorf("Title() = %q, want %q", th.Title(), "tag")
	}
}

func TestClipboardAndStyles(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	th.Insert("Hello World")
	th.Select(11, 6)
	if !th.SetBold(true) {
		t.Fatal("SetBold(true) over a selection should change the text")
	}
	ev, _ := rec.last(TopicAttrsChanged)
	if a, _ := event.PayloadAs[Attrs](ev); !a.Bold {
		t.Errorf("attrs event = %+v, want bold", a)
	}
	if got := th.Cut(); got != "World" {
		t.Errorf("Cut() = %q, want %q", got, "World")
	}
	th.Paste("There")
	if th.Text() != "Hello There" {
		t.Errorf("Text() = %q", th.Text())
	}
	if th.Copy() != "" {
		t.Error("Copy() without a selection should be empty")
	}
	if th.SetFont("") {
		t.Error("SetFont(\"\") should be a no-op")
	}
}

func TestLeaveCollapsesSelection(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	th.Insert("abc")
	th.Select(3, 0)
	th.Leave()
	c := th.Content().(*TextContent)
	if c.HasSelection() {
		t.Error("Leave should collapse the selection")
	}
	if ev, ok := rec.last(TopicCursorChanged); !ok {
		t.Error("Leave should reset the cursor")
	} else if cur, _ := event.PayloadAs[geometry.Cursor](ev); cur != geometry.CursorDefault {
		t.Errorf("cursor = %v, want default", cur)
	}
}

func TestIncludes(t *testing.T) {
	th, rec := newEditing(t, TypeText)
	if !th.Includes(geometry.Pt(100, 50)) {
		t.Error("center should be inside")
	}
	ev, _ := rec.last(TopicCursorChanged)
	if cur, _ := event.PayloadAs[geometry.Cursor](ev); cur != geometry.CursorText {
		t.Errorf("cursor = %v, want text", cur)
	}
	th.Includes(geometry.Pt(200, 50))
	ev, _ = rec.last(TopicCursorChanged)
	if cur, _ := event.PayloadAs[geometry.Cursor](ev); cur != geometry.CursorRightSide {
		t.Errorf("cursor = %v, want right side", cur)
	}
	if th.Includes(geometry.Pt(500, 500)) {
		t.Error("far point should be outside")
	}
}

func TestMonoLayout(t *testing.T) {
	l := MonoLayout{CharWidth: 8, LineHeight: 16}
	tests := []struct {
		x, y float64
		want int
	}{
		{0, 0, 0},
		{11, 0, 1},
		{100, 0, 3},
		{8, 20, 5},
		{0, 100, 4},
		{-5, -5, 0},
	}
	for _, tt := range tests {
		if got := l.IndexAt("abc\nde", tt.x, tt.y); got != tt.want {
			t.Errorf("IndexAt(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPointerFromMouse(t *testing.T) {
	ev, p := PointerFromMouse(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModShift), true)
	if !ev.primary() || !ev.shift() || !ev.DoubleClick || p != geometry.Pt(3, 4) {
		t.Errorf("PointerFromMouse() = %+v at %v", ev, p)
	}
}

func TestTypeElements(t *testing.T) {
	for _, typ := range []Type{TypeText, TypeLabel, TypeDrawing, TypeImage} {
		got, ok := TypeForElement(typ.Element())
		if !ok || got != typ {
			t.Errorf("TypeForElement(%q) = %v, %v", typ.Element(), got, ok)
		}
	}
	if _, ok := TypeForElement("MMap"); ok {
		t.Error("MMap is not a thought element")
	}
}
