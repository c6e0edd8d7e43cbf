package history

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Mode selects the direction an Action is applied in.
type Mode uint8

const (
	// Undo reverts the recorded mutation.
	Undo Mode = iota
	// Redo re-applies the recorded mutation.
	Redo
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Redo {
		return "redo"
	}
	return "undo"
}

// Kind identifies what sort of mutation an Action records.
type Kind uint8

const (
	KindInsert Kind = iota
	KindDelete
	KindResize
	KindAddAttr
	KindAddAttrRange
	KindRemoveAttr
	KindRemoveAttrRange
	KindDraw
	KindErase
	KindCompound
)

var kindNames = [...]string{
	KindInsert:          "insert",
	KindDelete:          "delete",
	KindResize:          "resize",
	KindAddAttr:         "attr-add",
	KindAddAttrRange:    "attr-add-range",
	KindRemoveAttr:      "attr-remove",
	KindRemoveAttrRange: "attr-remove-range",
	KindDraw:            "draw",
	KindErase:           "erase",
	KindCompound:        "compound",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ApplyFunc re-applies a recorded mutation in the given mode.
type ApplyFunc func(mode Mode) error

// Action is one reversible mutation.
type Action struct {
	ID          uuid.UUID
	Target      any
	Kind        Kind
	Description string
	Timestamp   time.Time

	apply    ApplyFunc
	children []*Action
	seq      uint64
}

// NewAction creates an action for target. apply must not be nil.
func NewAction(target any, kind Kind, description string, apply ApplyFunc) *Action {
	return &Action{
		ID:          uuid.New(),
		Target:      target,
		Kind:        kind,
		Description: description,
		Timestamp:   time.Now(),
		apply:       apply,
	}
}

// Apply runs the action in the given mode.
func (a *Action) Apply(mode Mode) error {
	if a.apply == nil {
		return ErrNoApply
	}
	return a.apply(mode)
}

// Info describes an action without exposing it. Targets lists every
// distinct target of a compound step, or just Target.
type Info struct {
	ID          uuid.UUID
	Target      any
	Targets     []any
	Kind        Kind
	Description string
	Timestamp   time.Time
}

func (a *Action) info() Info {
	return Info{
		ID:          a.ID,
		Target:      a.Target,
		Targets:     a.targets(nil),
		Kind:        a.Kind,
		Description: a.Description,
		Timestamp:   a.Timestamp,
	}
}

func (a *Action) targets(out []any) []any {
	if a.Kind != KindCompound {
		if !slices.Contains(out, a.Target) {
			out = append(out, a.Target)
		}
		return out
	}
	for _, c := range a.children {
		out = c.targets(out)
	}
	return out
}

// without removes the steps aimed at target and reports whether anything
// is left of the action.
func (a *Action) without(target any) bool {
	if a.Kind != KindCompound {
		return a.Target != target
	}
	a.children = slices.DeleteFunc(a.children, func(c *Action) bool { return !c.without(target) })
	if len(a.children) == 0 {
		return false
	}
	a.Target = a.children[0].Target
	return true
}

// newCompound combines actions into one step. Undo walks them backwards.
func newCompound(name string, actions []*Action) *Action {
	desc := name
	if desc == "" {
		desc = fmt.Sprintf("%d operations", len(actions))
	}
	a := &Action{
		ID:          uuid.New(),
		Target:      actions[0].Target,
		Kind:        KindCompound,
		Description: desc,
		Timestamp:   time.Now(),
		children:    slices.Clone(actions),
	}
	a.apply = func(mode Mode) error {
		if mode == Undo {
			for i := len(a.children) - 1; i >= 0; i-- {
				if err := a.children[i].Apply(Undo); err != nil {
					return fmt.Errorf("compound %q step %d: %w", desc, i, err)
				}
			}
			return nil
		}
		for i, c := range a.children {
			if err := c.Apply(Redo); err != nil {
				return fmt.Errorf("compound %q step %d: %w", desc, i, err)
			}
		}
		return nil
	}
	return a
}
