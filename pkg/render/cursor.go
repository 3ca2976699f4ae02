package render

import (
	"errors"
	"image"
	"image/draw"

	"github.com/giongto35/screen-recorder/pkg/media"
)

var ErrNoPointerShape = errors.New("render: visible pointer without a shape")

// Cursor draws the mouse pointer over frames.
type Cursor struct {
	dev Device
}

func NewCursor(dev Device) *Cursor { return &Cursor{dev: dev} }

func (c *Cursor) Bind(dev Device) { c.dev = dev }

// Draw puts the pointer shape onto the frame, the pointer position
// is given in capture coordinates and converted with the layout.
func (c *Cursor) Draw(frame *image.RGBA, p *media.PointerInfo, l Layout) error {
	if p == nil || !p.Visible {
		return nil
	}
	if p.Shape == nil {
		return ErrNoPointerShape
	}
	if err := c.dev.RemovedReason(); err != nil {
		return err
	}
	at := l.Map(p.Position).Sub(p.Hotspot).Add(frame.Bounds().Min)
	sb := p.Shape.Bounds()
	draw.Draw(frame, image.Rectangle{Min: at, Max: at.Add(sb.Size())}, p.Shape, sb.Min, draw.Over)
	return nil
}
