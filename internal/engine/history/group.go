package history

import (
	"errors"
	"fmt"
)

// BeginGroup starts collecting actions into one undo step.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupActions = nil
}

// EndGroup commits the collected actions. A group with a single action is
// recorded as that action.
func (h *History) EndGroup() {
	if !h.grouping {
		return
	}
	h.grouping = false
	actions := h.groupActions
	h.groupActions = nil

	switch len(actions) {
	case 0:
	case 1:
		h.push(actions[0])
	default:
		h.push(newCompound(h.groupName, actions))
	}
}

// CancelGroup drops the collected actions without recording them.
// Mutations already performed are not reverted.
func (h *History) CancelGroup() {
	h.grouping = false
	h.groupActions = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	return h.grouping
}

// GroupScope provides a convenient way to group actions using defer:
//
//	defer h.GroupScope("Replace selection").End()
type GroupScope struct {
	history *History
	active  bool
	owner   bool
}

// GroupScope starts a group. If a group is already open the scope joins it
// and End leaves it open for its owner.
func (h *History) GroupScope(name string) *GroupScope {
	owner := !h.grouping
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true, owner: owner}
}

// End closes the scope. Safe to call multiple times.
func (g *GroupScope) End() {
	if g.active {
		if g.owner {
			g.history.EndGroup()
		}
		g.active = false
	}
}

// Cancel closes the scope without recording the group.
func (g *GroupScope) Cancel() {
	if g.active {
		if g.owner {
			g.history.CancelGroup()
		}
		g.active = false
	}
}

// Transaction runs fn inside a group so that its actions form one step.
// If fn fails, the actions it recorded are undone, newest first, and
// dropped. Inside a group opened by someone else the actions are left to
// that group's owner.
func (h *History) Transaction(name string, fn func() error) error {
	scope := h.GroupScope(name)
	err := fn()
	if err == nil || !scope.owner {
		scope.End()
		return err
	}
	actions := h.groupActions
	scope.Cancel()
	for i := len(actions) - 1; i >= 0; i-- {
		if rerr := h.replay(actions[i], Undo); rerr != nil {
			return errors.Join(err, fmt.Errorf("revert %s: %w", actions[i].Description, rerr))
		}
	}
	return err
}

// Checkpoint represents a point in history that can be returned to. It
// holds the sequence number of the newest undoable step.
type Checkpoint struct {
	seq uint64
}

// CreateCheckpoint records the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	if len(h.undoStack) == 0 {
		return Checkpoint{}
	}
	return Checkpoint{seq: h.undoStack[len(h.undoStack)-1].seq}
}

// UndoToCheckpoint undoes every step that was not undoable at cp.
func (h *History) UndoToCheckpoint(cp Checkpoint) error {
	h.EndGroup()
	for len(h.undoStack) > 0 && h.undoStack[len(h.undoStack)-1].seq > cp.seq {
		if _, err := h.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes the steps that were undoable at cp and have
// been undone since.
func (h *History) RedoToCheckpoint(cp Checkpoint) error {
	h.EndGroup()
	for len(h.redoStack) > 0 && h.redoStack[len(h.redoStack)-1].seq <= cp.seq {
		if _, err := h.Redo(); err != nil {
			return err
		}
	}
	return nil
}
