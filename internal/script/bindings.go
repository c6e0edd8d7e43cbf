package script

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/textbuf"
	"github.com/dshills/thoughtmap/internal/thought"
)

const thoughtTypeName = "thought"

var typeNames = map[string]thought.Type{
	"text":    thought.TypeText,
	"label":   thought.TypeLabel,
	"drawing": thought.TypeDrawing,
	"image":   thought.TypeImage,
}

func (e *Engine) registerMap() {
	L := e.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"title":    e.mapTitle,
		"add":      e.mapAdd,
		"get":      e.mapGet,
		"thoughts": e.mapThoughts,
		"link":     e.mapLink,
		"unlink":   e.mapUnlink,
		"edit":     e.mapEdit,
		"primary":  e.mapPrimary,
		"remove":   e.mapRemove,
		"undo":     e.undo,
		"redo":     e.redo,
		"batch":    e.mapBatch,
	})
	L.SetGlobal("map", mod)
}

func (e *Engine) registerThought() {
	L := e.L
	mt := L.NewTypeMetatable(thoughtTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"id":        thoughtID,
		"type":      thoughtKind,
		"title":     thoughtTitle,
		"text":      thoughtText,
		"note":      thoughtNote,
		"caret":     thoughtCaret,
		"insert":    thoughtInsert,
		"backspace": thoughtBackspace,
		"delete":    thoughtDelete,
		"select":    thoughtSelect,
		"bold":      styleFunc((*thought.Thought).SetBold),
		"italic":    styleFunc((*thought.Thought).SetItalic),
		"underline": styleFunc((*thought.Thought).SetUnderline),
		"font":      thoughtFont,
		"resize":    thoughtResize,
		"move":      thoughtMove,
		"undo":      e.undo,
		"redo":      e.redo,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		t := checkThought(L, 1)
		L.Push(lua.LString(t.Type().String() + " #" + strconv.Itoa(t.ID())))
		return 1
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkThought(L, 1) == checkThought(L, 2)))
		return 1
	}))
}

func push(L *lua.LState, t *thought.Thought) {
	if t == nil {
		L.Push(lua.LNil)
		return
	}
	L.Push(wrap(L, t))
}

func wrap(L *lua.LState, t *thought.Thought) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = t
	L.SetMetatable(ud, L.GetTypeMetatable(thoughtTypeName))
	return ud
}

func checkThought(L *lua.LState, n int) *thought.Thought {
	ud := L.CheckUserData(n)
	t, ok := ud.Value.(*thought.Thought)
	if !ok {
		L.ArgError(n, "thought expected")
	}
	return t
}

func optThought(L *lua.LState, n int) *thought.Thought {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return checkThought(L, n)
}

func (e *Engine) mapTitle(L *lua.LState) int {
	if L.GetTop() >= 1 {
		e.m.Title = L.CheckString(1)
	}
	L.Push(lua.LString(e.m.Title))
	return 1
}

func (e *Engine) mapAdd(L *lua.LState) int {
	name := L.CheckString(1)
	typ, ok := typeNames[name]
	if !ok {
		L.ArgError(1, "unknown thought type "+name)
		return 0
	}
	p := geometry.Pt(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	t := e.m.AddBox(typ, geometry.RectFromSize(p, 0, 0))
	cfg := t.Geometry().Config()
	w := float64(L.OptNumber(4, lua.LNumber(cfg.DefaultWidth)))
	h := float64(L.OptNumber(5, lua.LNumber(cfg.DefaultHeight)))
	t.Geometry().SetSize(w, h)
	push(L, t)
	return 1
}

func (e *Engine) mapGet(L *lua.LState) int {
	t, _ := e.m.Thought(L.CheckInt(1))
	push(L, t)
	return 1
}

func (e *Engine) mapThoughts(L *lua.LState) int {
	tbl := L.NewTable()
	for _, t := range e.m.Thoughts() {
		tbl.Append(wrap(L, t))
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) mapLink(L *lua.LState) int {
	if err := e.m.Link(checkThought(L, 1), checkThought(L, 2)); err != nil {
		L.RaiseError("link: %v", err)
	}
	return 0
}

func (e *Engine) mapUnlink(L *lua.LState) int {
	L.Push(lua.LBool(e.m.Unlink(checkThought(L, 1), checkThought(L, 2))))
	return 1
}

func (e *Engine) mapEdit(L *lua.LState) int {
	e.m.Edit(optThought(L, 1))
	return 0
}

func (e *Engine) mapPrimary(L *lua.LState) int {
	push(L, e.m.Primary())
	return 1
}

func (e *Engine) mapRemove(L *lua.LState) int {
	if err := e.m.Remove(checkThought(L, 1)); err != nil {
		L.RaiseError("remove: %v", err)
	}
	return 0
}

func (e *Engine) undo(L *lua.LState) int {
	return e.step(L, e.m.Undo)
}

func (e *Engine) redo(L *lua.LState) int {
	return e.step(L, e.m.Redo)
}

// mapBatch calls fn inside a history transaction. An error raised by fn
// reverts what it recorded and is raised again.
func (e *Engine) mapBatch(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	err := e.m.Transaction(name, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.RaiseError("batch %s: %v", name, err)
	}
	return 0
}

func (e *Engine) step(L *lua.LState, fn func() (bool, error)) int {
	ok, err := fn()
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func thoughtID(L *lua.LState) int {
	L.Push(lua.LNumber(checkThought(L, 1).ID()))
	return 1
}

func thoughtKind(L *lua.LState) int {
	L.Push(lua.LString(checkThought(L, 1).Type().String()))
	return 1
}

func thoughtTitle(L *lua.LState) int {
	L.Push(lua.LString(checkThought(L, 1).Title()))
	return 1
}

func thoughtText(L *lua.LState) int {
	L.Push(lua.LString(checkThought(L, 1).Text()))
	return 1
}

// thoughtNote returns the extended note, replacing it first when a string
// is given.
func thoughtNote(L *lua.LState) int {
	t := checkThought(L, 1)
	if L.GetTop() >= 2 {
		t.SetExtended(L.CheckString(2))
	}
	L.Push(lua.LString(t.Extended()))
	return 1
}

func buffer(t *thought.Thought) *textbuf.Buffer {
	switch c := t.Content().(type) {
	case *thought.TextContent:
		return c.Buffer
	case *thought.LabelContent:
		return c.Buffer
	}
	return nil
}

// thoughtCaret returns the caret and the selection end, or nothing for
// thoughts without text.
func thoughtCaret(L *lua.LState) int {
	b := buffer(checkThought(L, 1))
	if b == nil {
		return 0
	}
	L.Push(lua.LNumber(b.Caret()))
	L.Push(lua.LNumber(b.SelectionEnd()))
	return 2
}

func thoughtInsert(L *lua.LState) int {
	L.Push(lua.LBool(checkThought(L, 1).Insert(L.CheckString(2))))
	return 1
}

func thoughtBackspace(L *lua.LState) int {
	L.Push(lua.LBool(checkThought(L, 1).DeleteBackward()))
	return 1
}

func thoughtDelete(L *lua.LState) int {
	L.Push(lua.LBool(checkThought(L, 1).DeleteForward()))
	return 1
}

func thoughtSelect(L *lua.LState) int {
	t := checkThought(L, 1)
	caret := L.CheckInt(2)
	end := L.OptInt(3, caret)
	L.Push(lua.LBool(t.Select(caret, end)))
	return 1
}

func styleFunc(set func(*thought.Thought, bool) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		t := checkThought(L, 1)
		on := true
		if L.GetTop() >= 2 {
			on = L.ToBool(2)
		}
		L.Push(lua.LBool(set(t, on)))
		return 1
	}
}

func thoughtFont(L *lua.LState) int {
	L.Push(lua.LBool(checkThought(L, 1).SetFont(L.CheckString(2))))
	return 1
}

func thoughtResize(L *lua.LState) int {
	t := checkThought(L, 1)
	L.Push(lua.LBool(t.Resize(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
	return 1
}

func thoughtMove(L *lua.LState) int {
	checkThought(L, 1).MoveBy(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	return 0
}
