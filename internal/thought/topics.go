package thought

import "github.com/dshills/thoughtmap/internal/event"

// Topics published by a thought. The event source is always the *Thought.
const (
	// TopicViewUpdate asks the renderer to redraw. No payload.
	TopicViewUpdate event.Topic = "thought.view.update"

	// TopicTitleChanged carries the new title as a string.
	TopicTitleChanged event.Topic = "thought.title.changed"

	// TopicSelectionChanged carries a Selection.
	TopicSelectionChanged event.Topic = "thought.selection.changed"

	// TopicCursorChanged carries the geometry.Cursor to show.
	TopicCursorChanged event.Topic = "thought.cursor.changed"

	// TopicLinksUpdate asks for links to this thought to be recomputed.
	TopicLinksUpdate event.Topic = "thought.links.update"

	// TopicAttrsChanged carries the Attrs in effect at the caret.
	TopicAttrsChanged event.Topic = "thought.attrs.changed"

	// TopicFocusGrab carries a bool: whether to grab keyboard focus.
	TopicFocusGrab event.Topic = "thought.focus.grab"

	// TopicSelect asks the map to make this thought the selected one.
	TopicSelect event.Topic = "thought.select"
)

// Selection is the payload of TopicSelectionChanged, in character offsets.
type Selection struct {
	Start int
	End   int
	Text  string
}

// Attrs is the payload of TopicAttrsChanged.
type Attrs struct {
	Bold      bool
	Italic    bool
	Underline bool
	// Font is the font descriptor in effect, or "" for the default.
	Font string
}
