package thought

// LabelContent is text drawn without a box. The edge is only shown while
// the label is being edited, and links may end at a label but never start
// from one.
type LabelContent struct {
	*TextContent

	Edge bool
}

func newLabel(t *Thought) *LabelContent {
	return &LabelContent{TextContent: newText(t)}
}

// Type implements Content.
func (c *LabelContent) Type() Type { return TypeLabel }

func (c *LabelContent) canBeParent() bool { return false }

func (c *LabelContent) enter(t *Thought) {
	c.Edge = true
	c.TextContent.enter(t)
}

func (c *LabelContent) leave(t *Thought) {
	c.Edge = false
	c.TextContent.leave(t)
}
