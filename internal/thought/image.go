package thought

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
)

// ImageContent refers to an image file. Decoding and scaling the image is
// left to the renderer; the thought only keeps the file name and the
// natural size.
type ImageContent struct {
	noGesture

	File   string
	Width  int
	Height int
}

// Type implements Content.
func (c *ImageContent) Type() Type { return TypeImage }

func (c *ImageContent) title(t *Thought) string {
	if c.File == "" {
		return fmt.Sprintf("Image #%d", t.id)
	}
	return filepath.Base(c.File)
}

func (c *ImageContent) canBeParent() bool           { return true }
func (c *ImageContent) editCursor() geometry.Cursor { return geometry.CursorDefault }

// created sizes a thought placed with a click to the natural image size.
func (c *ImageContent) created(t *Thought, small bool) {
	if small && c.Width > 0 && c.Height > 0 {
		t.geom.SetSize(float64(c.Width), float64(c.Height))
	}
}

// SetImage sets the file and natural size of an image thought. A thought
// still being created takes the natural size once placed.
func (t *Thought) SetImage(file string, width, height int) bool {
	c, ok := t.content.(*ImageContent)
	if !ok {
		return false
	}
	c.File, c.Width, c.Height = file, width, height
	t.updateTitle()
	t.publish(TopicViewUpdate, nil)
	return true
}
