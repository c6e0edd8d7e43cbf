// Package document holds a thought map: the thoughts, the links between
// them and the undo history they share.
//
// A Map hands out thought identities, remembers which thought is primary
// and which is selected, and reads and writes the <MMap> document that
// thoughts serialize into. Undo and Redo refresh the thought an action
// belonged to so that listeners see the restored state.
//
// Basic usage:
//
//	m := document.New(document.DefaultOptions())
//	t := m.AddBox(thought.TypeText, geometry.RectFromSize(geometry.Pt(0, 0), 100, 70))
//	m.Edit(t)
//	t.Insert("Hello")
//	m.Undo()
//
// A Map is not safe for concurrent use.
package document
