package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/thoughtmap/internal/logging"
)

// DefaultMaxDepth is used when a non-positive depth is configured.
const DefaultMaxDepth = 1000

// Errors returned by history operations.
var (
	ErrNoApply = errors.New("action has no apply function")
)

// History manages the undo and redo stacks shared by the thoughts of a map.
type History struct {
	undoStack []*Action
	redoStack []*Action

	// blocked is a depth counter; Add is inert while it is non-zero.
	blocked int

	grouping     bool
	groupName    string
	groupActions []*Action

	// seq numbers pushed steps so checkpoints survive trimming.
	seq uint64

	maxDepth int
	logger   *logging.Logger
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger used to report failed replays.
func WithLogger(l *logging.Logger) Option {
	return func(h *History) {
		h.logger = l.WithComponent("history")
	}
}

// New creates a history holding at most maxDepth undo steps.
func New(maxDepth int, opts ...Option) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	h := &History{maxDepth: maxDepth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add records an action. It reports false and does nothing while the
// history is blocked. A recorded action clears the redo stack.
func (h *History) Add(a *Action) bool {
	if a == nil || h.blocked > 0 {
		return false
	}
	if h.grouping {
		h.groupActions = append(h.groupActions, a)
		return true
	}
	h.push(a)
	return true
}

func (h *History) push(a *Action) {
	h.seq++
	a.seq = h.seq
	h.undoStack = append(h.undoStack, a)
	h.redoStack = nil
	h.trim()
}

func (h *History) trim() {
	if excess := len(h.undoStack) - h.maxDepth; excess > 0 {
		clear(h.undoStack[:excess])
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent action. It reports false when there is
// nothing to undo. If the action fails it stays on the undo stack.
func (h *History) Undo() (bool, error) {
	h.EndGroup()
	if len(h.undoStack) == 0 {
		return false, nil
	}

	a := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	if err := h.replay(a, Undo); err != nil {
		h.undoStack = append(h.undoStack, a)
		h.logger.WithError(err).WithField("action", a.Description).Error("undo failed")
		return false, fmt.Errorf("undo %s: %w", a.Description, err)
	}

	h.redoStack = append(h.redoStack, a)
	return true, nil
}

// Redo re-applies the most recently undone action.
func (h *History) Redo() (bool, error) {
	h.EndGroup()
	if len(h.redoStack) == 0 {
		return false, nil
	}

	a := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	if err := h.replay(a, Redo); err != nil {
		h.redoStack = append(h.redoStack, a)
		h.logger.WithError(err).WithField("action", a.Description).Error("redo failed")
		return false, fmt.Errorf("redo %s: %w", a.Description, err)
	}

	h.undoStack = append(h.undoStack, a)
	h.trim()
	return true, nil
}

func (h *History) replay(a *Action, mode Mode) error {
	h.Block()
	defer h.Unblock()
	h.logger.Debug("%s %s", mode, a.Description)
	return a.Apply(mode)
}

// Block suppresses recording until the matching Unblock.
func (h *History) Block() {
	h.blocked++
}

// Unblock releases one Block.
func (h *History) Unblock() {
	if h.blocked > 0 {
		h.blocked--
	}
}

// Blocked reports whether recording is currently suppressed.
func (h *History) Blocked() bool {
	return h.blocked > 0
}

// Suppress runs fn with recording blocked. The gate is released even if
// fn panics.
func (h *History) Suppress(fn func()) {
	h.Block()
	defer h.Unblock()
	fn()
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupActions = nil
}

// DropTarget forgets every recorded step aimed at target, in both stacks
// and in an open group. Compound steps lose only the parts for target.
// It returns the number of steps removed entirely.
func (h *History) DropTarget(target any) int {
	keep := func(a *Action) bool { return !a.without(target) }
	n := len(h.undoStack) + len(h.redoStack)
	h.undoStack = slices.DeleteFunc(h.undoStack, keep)
	h.redoStack = slices.DeleteFunc(h.redoStack, keep)
	h.groupActions = slices.DeleteFunc(h.groupActions, keep)
	return n - len(h.undoStack) - len(h.redoStack)
}

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []Info {
	return infos(h.undoStack)
}

// RedoInfo describes the redo stack, oldest first.
func (h *History) RedoInfo() []Info {
	return infos(h.redoStack)
}

func infos(stack []*Action) []Info {
	result := make([]Info, len(stack))
	for i, a := range stack {
		result[i] = a.info()
	}
	return result
}

// PeekUndo returns the next undo step without removing it.
func (h *History) PeekUndo() (Info, bool) {
	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns the next redo step without removing it.
func (h *History) PeekRedo() (Info, bool) {
	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxDepth changes the maximum number of undo steps.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxDepth(max int) {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	h.maxDepth = max
	h.trim()
}

// MaxDepth returns the maximum number of undo steps.
func (h *History) MaxDepth() int {
	return h.maxDepth
}
