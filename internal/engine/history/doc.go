// Package history provides undo/redo for thought editing.
//
// Every mutation of a thought (text insert or delete, attribute toggles,
// resizes, freehand strokes) is recorded as an Action that knows how to
// re-apply itself in either direction:
//
//	h := history.New(1000) // keep at most 1000 undo steps
//
//	h.Add(history.NewAction(owner, history.KindInsert, "Insert \"a\"", apply))
//
//	h.Undo() // apply(history.Undo)
//	h.Redo() // apply(history.Redo)
//
// # Blocking
//
// While an action is being replayed the history is blocked: any Add made by
// the mutation code it calls is ignored, so replaying an insert through the
// normal insert path does not record a new action. Block and Unblock nest;
// Suppress runs a function with the gate held and always releases it.
//
// # Grouping
//
// Several actions can be committed as one undo step:
//
//	defer h.GroupScope("Replace selection").End()
//
// The history is linear: adding a new action discards the redo stack.
// A History is not safe for concurrent use.
package history
