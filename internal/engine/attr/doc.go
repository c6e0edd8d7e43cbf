// Package attr tracks rich-text style ranges over a thought's text.
//
// A Set holds committed ranges, half-open [Start, End) character offsets
// tagged with a Style (bold, italic, underline or a font descriptor), and
// pending ranges: zero-width entries at the caret that describe the styles
// the next typed text will receive.
//
// Writes follow attribute-list semantics: for a given Kind the last write
// wins at every offset, and ranges with the same Style that touch or
// overlap are coalesced. Committed ranges never have zero width; a range
// that a deletion swallows completely disappears.
//
// Offsets are characters, not bytes. Converting to and from byte offsets is
// the job of the owning text buffer.
package attr
