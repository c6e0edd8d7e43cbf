package attr

import "slices"

// Snapshot is an immutable copy of a set's contents.
type Snapshot struct {
	ranges  []Range
	pending []Range
}

// Snapshot captures the current contents.
func (s *Set) Snapshot() Snapshot {
	return Snapshot{
		ranges:  slices.Clone(s.ranges),
		pending: slices.Clone(s.pending),
	}
}

// Restore replaces the contents with snap.
func (s *Set) Restore(snap Snapshot) {
	s.ranges = slices.Clone(snap.ranges)
	s.pending = slices.Clone(snap.pending)
}

// Ranges returns the committed ranges held by the snapshot.
func (snap Snapshot) Ranges() []Range {
	return slices.Clone(snap.ranges)
}

// Pending returns the pending ranges held by the snapshot.
func (snap Snapshot) Pending() []Range {
	return slices.Clone(snap.pending)
}

// Equal reports whether two snapshots hold the same ranges.
func (snap Snapshot) Equal(other Snapshot) bool {
	return slices.Equal(snap.ranges, other.ranges) && slices.Equal(snap.pending, other.pending)
}

// Op identifies what a toggle did.
type Op uint8

const (
	OpNone Op = iota
	OpAddPending
	OpRemovePending
	OpAddRange
	OpRemoveRange
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpAddPending:
		return "add-pending"
	case OpRemovePending:
		return "remove-pending"
	case OpAddRange:
		return "add-range"
	case OpRemoveRange:
		return "remove-range"
	default:
		return "none"
	}
}

// Change describes the effect of a toggle so it can be undone.
type Change struct {
	Op     Op
	Style  Style
	Start  int
	End    int
	Before Snapshot
	After  Snapshot
}

// Changed reports whether the toggle modified the set.
func (c Change) Changed() bool {
	return c.Op != OpNone && !c.Before.Equal(c.After)
}

// Toggle turns style on or off for [start, end).
//
// With a caret (start == end) only the pending typing styles change. With
// a selection, turning on writes a range over it and turning off removes
// every range of the style's kind inside it, splitting ranges that extend
// past either side. Turning a style off also drops its pending entry.
func (s *Set) Toggle(style Style, on bool, start, end int) Change {
	if start > end {
		start, end = end, start
	}
	c := Change{Style: style, Start: start, End: end, Before: s.Snapshot()}

	switch {
	case start == end && on:
		s.AddPending(style, start)
		c.Op = OpAddPending
	case start == end:
		if s.RemovePending(style.Kind) {
			c.Op = OpRemovePending
		}
	case on:
		s.Change(Range{Style: style, Start: start, End: end})
		c.Op = OpAddRange
	default:
		removed := s.Remove(style.Kind, start, end)
		dropped := s.RemovePending(style.Kind)
		if removed || dropped {
			c.Op = OpRemoveRange
		}
	}

	c.After = s.Snapshot()
	if c.Before.Equal(c.After) {
		c.Op = OpNone
	}
	return c
}

// Run is a maximal span of text sharing one set of styles.
type Run struct {
	Start  int
	End    int
	Styles []Style
}

// Has reports whether the run carries a style of kind.
func (r Run) Has(kind Kind) bool {
	return slices.ContainsFunc(r.Styles, func(st Style) bool { return st.Kind == kind })
}

// FontDesc returns the run's font descriptor or "".
func (r Run) FontDesc() string {
	for _, st := range r.Styles {
		if st.Kind == Font {
			return st.Desc
		}
	}
	return ""
}

// Runs splits [0, length) into runs of constant style.
func (s *Set) Runs(length int) []Run {
	if length <= 0 {
		return nil
	}
	cuts := []int{0, length}
	for _, r := range s.ranges {
		if r.Start > 0 && r.Start < length {
			cuts = append(cuts, r.Start)
		}
		if r.End > 0 && r.End < length {
			cuts = append(cuts, r.End)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	runs := make([]Run, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		var styles []Style
		for _, r := range s.ranges {
			if r.Start <= a && b <= r.End {
				styles = append(styles, r.Style)
			}
		}
		slices.SortFunc(styles, compareStyle)
		if n := len(runs); n > 0 && slices.Equal(runs[n-1].Styles, styles) {
			runs[n-1].End = b
			continue
		}
		runs = append(runs, Run{Start: a, End: b, Styles: styles})
	}
	return runs
}
