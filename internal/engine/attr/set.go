package attr

import (
	"slices"
)

// Set is an ordered collection of style ranges.
//
// Invariants maintained by every mutating method:
//   - committed ranges are sorted by Start, End then Style
//   - committed ranges are never empty
//   - ranges of one Kind never overlap, and ranges of one Style never touch
//   - pending ranges are zero-width and hold at most one entry per Kind
//
// Set is not safe for concurrent use.
type Set struct {
	ranges  []Range
	pending []Range
}

// New creates an empty set.
func New() *Set {
	return &Set{}
}

// Len returns the number of committed ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

// Ranges returns a copy of the committed ranges in order.
func (s *Set) Ranges() []Range {
	return slices.Clone(s.ranges)
}

// Pending returns a copy of the pending typing ranges.
func (s *Set) Pending() []Range {
	return slices.Clone(s.pending)
}

// HasPending reports whether a pending range of kind exists.
func (s *Set) HasPending(kind Kind) bool {
	return slices.ContainsFunc(s.pending, func(r Range) bool { return r.Kind == kind })
}

// Clear removes every committed and pending range.
func (s *Set) Clear() {
	s.ranges = s.ranges[:0]
	s.pending = s.pending[:0]
}

// Change inserts r with last-write-wins semantics.
//
// Ranges with the same Style that overlap or touch r are merged into it.
// Ranges of the same Kind but a different Style (another font) are clipped
// so the new range owns [r.Start, r.End). Empty ranges are ignored.
func (s *Set) Change(r Range) {
	r = NewRange(r.Style, r.Start, r.End)
	if r.IsEmpty() {
		return
	}

	start, end := r.Start, r.End
	out := s.ranges[:0:0]
	var others []Range
	for _, cur := range s.ranges {
		switch {
		case cur.Kind != r.Kind:
			out = append(out, cur)
		case cur.Style == r.Style && cur.Start <= end && start <= cur.End:
			start = min(start, cur.Start)
			end = max(end, cur.End)
		default:
			others = append(others, cur)
		}
	}
	for _, cur := range others {
		out = appendClipped(out, cur, start, end)
	}
	out = append(out, Range{Style: r.Style, Start: start, End: end})
	slices.SortFunc(out, compareRange)
	s.ranges = out
}

// Remove subtracts [start, end) from every committed range of kind.
// A range that contains the interval strictly is split in two.
// It reports whether anything changed.
func (s *Set) Remove(kind Kind, start, end int) bool {
	if start > end {
		start, end = end, start
	}
	if start == end {
		return false
	}
	changed := false
	out := s.ranges[:0:0]
	for _, cur := range s.ranges {
		if cur.Kind != kind || !cur.Overlaps(start, end) {
			out = append(out, cur)
			continue
		}
		changed = true
		out = appendClipped(out, cur, start, end)
	}
	if changed {
		slices.SortFunc(out, compareRange)
		s.ranges = out
	}
	return changed
}

// appendClipped appends what remains of r after removing [start, end).
func appendClipped(out []Range, r Range, start, end int) []Range {
	if !r.Overlaps(start, end) {
		return append(out, r)
	}
	if r.Start < start {
		out = append(out, Range{Style: r.Style, Start: r.Start, End: start})
	}
	if r.End > end {
		out = append(out, Range{Style: r.Style, Start: end, End: r.End})
	}
	return out
}

// Active returns the styles in effect for [start, end).
//
// With an empty interval (a caret) a committed range is active when
// Start <= offset < End; pending ranges at the caret are active too.
// With a selection a style is active only when ranges of that style cover
// the whole selection without a gap.
func (s *Set) Active(start, end int) []Style {
	if start > end {
		start, end = end, start
	}
	var styles []Style
	add := func(st Style) {
		if !slices.Contains(styles, st) {
			styles = append(styles, st)
		}
	}
	if start == end {
		for _, r := range s.ranges {
			if r.Start > start {
				break
			}
			if r.Contains(start) {
				add(r.Style)
			}
		}
		for _, p := range s.pending {
			if p.Start == start {
				add(p.Style)
			}
		}
		slices.SortFunc(styles, compareStyle)
		return styles
	}

	for _, r := range s.ranges {
		if r.Start >= end {
			break
		}
		if r.Overlaps(start, end) && s.covers(r.Style, start, end) {
			add(r.Style)
		}
	}
	slices.SortFunc(styles, compareStyle)
	return styles
}

// IsActive reports whether style is active over [start, end).
func (s *Set) IsActive(style Style, start, end int) bool {
	return slices.Contains(s.Active(start, end), style)
}

// KindActive reports whether any style of kind is active over [start, end).
func (s *Set) KindActive(kind Kind, start, end int) bool {
	return slices.ContainsFunc(s.Active(start, end), func(st Style) bool { return st.Kind == kind })
}

// covers reports whether ranges of style cover [start, end) contiguously.
func (s *Set) covers(style Style, start, end int) bool {
	pos := start
	for _, r := range s.ranges {
		if r.Style != style {
			continue
		}
		if r.Start > pos {
			return false
		}
		if r.End > pos {
			pos = r.End
		}
		if pos >= end {
			return true
		}
	}
	return false
}

// StartingAt returns the styles of committed ranges that begin at offset
// at. Kinds with a pending typing style at the offset are left out.
func (s *Set) StartingAt(at int) []Style {
	var styles []Style
	for _, r := range s.ranges {
		if r.Start > at {
			break
		}
		if r.Start != at || r.IsEmpty() || s.HasPendingAt(r.Kind, at) {
			continue
		}
		if !slices.Contains(styles, r.Style) {
			styles = append(styles, r.Style)
		}
	}
	return styles
}

// HasPendingAt reports whether a typing style of kind sits at offset at.
func (s *Set) HasPendingAt(kind Kind, at int) bool {
	return slices.ContainsFunc(s.pending, func(p Range) bool { return p.Kind == kind && p.Start == at })
}

// ApplyInsert shifts ranges for n characters inserted at offset at.
//
// Ranges ending at or before at are unchanged, ranges starting at or after
// at move right, and ranges straddling at grow. Pending ranges at the
// insertion point are committed over the new text and stay pending at the
// caret after it.
func (s *Set) ApplyInsert(at, n int) {
	if n <= 0 {
		return
	}
	for i := range s.ranges {
		r := &s.ranges[i]
		switch {
		case r.End <= at:
		case r.Start >= at:
			r.Start += n
			r.End += n
		default:
			r.End += n
		}
	}

	var commit []Range
	for i := range s.pending {
		p := &s.pending[i]
		switch {
		case p.Start == at:
			commit = append(commit, Range{Style: p.Style, Start: at, End: at + n})
			p.Start, p.End = at+n, at+n
		case p.Start > at:
			p.Start += n
			p.End += n
		}
	}
	for _, r := range commit {
		s.Change(r)
	}
}

// ApplyDelete shifts ranges for the deletion of [start, end).
//
// Each bound before the deletion is kept, each bound after it moves left by
// the deleted length, and each bound inside it collapses to start.
// Committed ranges that become empty are dropped.
func (s *Set) ApplyDelete(start, end int) {
	if start > end {
		start, end = end, start
	}
	d := end - start
	if d == 0 {
		return
	}
	shift := func(off int) int {
		switch {
		case off <= start:
			return off
		case off >= end:
			return off - d
		default:
			return start
		}
	}

	out := s.ranges[:0]
	for _, r := range s.ranges {
		r.Start = shift(r.Start)
		r.End = shift(r.End)
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	s.ranges = out
	s.normalize()

	for i := range s.pending {
		p := &s.pending[i]
		p.Start = shift(p.Start)
		p.End = p.Start
	}
}

// normalize restores ordering and coalesces same-style ranges that a
// deletion made adjacent.
func (s *Set) normalize() {
	slices.SortFunc(s.ranges, compareRange)
	out := s.ranges[:0]
	for _, r := range s.ranges {
		merged := false
		for i := len(out) - 1; i >= 0; i-- {
			if out[i].Style == r.Style && out[i].End >= r.Start {
				out[i].End = max(out[i].End, r.End)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, r)
		}
	}
	s.ranges = out
}

// AddPending sets a typing style at the caret offset. A pending font
// replaces any other pending font.
func (s *Set) AddPending(style Style, at int) {
	s.pending = slices.DeleteFunc(s.pending, func(p Range) bool { return p.Kind == style.Kind })
	s.pending = append(s.pending, Range{Style: style, Start: at, End: at})
	slices.SortFunc(s.pending, compareRange)
}

// RemovePending drops the typing style of kind and reports whether one was set.
func (s *Set) RemovePending(kind Kind) bool {
	n := len(s.pending)
	s.pending = slices.DeleteFunc(s.pending, func(p Range) bool { return p.Kind == kind })
	return len(s.pending) != n
}

// ClearPending drops every typing style and reports whether any was set.
func (s *Set) ClearPending() bool {
	n := len(s.pending)
	s.pending = s.pending[:0]
	return n > 0
}

// Clip drops the parts of committed ranges beyond length and moves pending
// ranges into [0, length].
func (s *Set) Clip(length int) {
	out := s.ranges[:0]
	for _, r := range s.ranges {
		r.Start = max(0, min(r.Start, length))
		r.End = max(0, min(r.End, length))
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	s.ranges = out
	for i := range s.pending {
		p := &s.pending[i]
		p.Start = max(0, min(p.Start, length))
		p.End = p.Start
	}
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		ranges:  slices.Clone(s.ranges),
		pending: slices.Clone(s.pending),
	}
}

// Equal reports whether two sets hold the same ranges.
func (s *Set) Equal(other *Set) bool {
	return slices.Equal(s.ranges, other.ranges) && slices.Equal(s.pending, other.pending)
}
