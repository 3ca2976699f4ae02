package render

import (
	"image"
	"image/draw"

	"github.com/giongto35/screen-recorder/pkg/media"
	xdraw "golang.org/x/image/draw"
)

// Geometry is the requested shape of output frames.
type Geometry struct {
	// SourceRect crops the capture, empty means no crop.
	SourceRect image.Rectangle
	// FrameSize of output frames, empty means the size of the cropped capture.
	FrameSize media.Size
	Stretch   media.Stretch
	Anchor    media.Anchor
}

// Layout maps captured frames onto output frames.
type Layout struct {
	Capture media.Size
	Source  image.Rectangle
	Output  media.Size
	Content image.Rectangle
}

// NewLayout negotiates output rectangles for the capture of the given size.
// Output frame dimensions are always even.
func NewLayout(capture media.Size, g Geometry) Layout {
	full := media.MakeEven(capture.Rect())
	src := full
	if !g.SourceRect.Empty() {
		if r := media.MakeEven(g.SourceRect.Intersect(full)); !r.Empty() {
			src = r
		}
	}
	out := media.SizeOf(src)
	if !g.FrameSize.Empty() {
		out = g.FrameSize.Even()
	}
	return Layout{
		Capture: capture,
		Source:  src,
		Output:  out,
		Content: contentRect(media.SizeOf(src), out, g.Stretch, g.Anchor),
	}
}

func contentRect(src, out media.Size, s media.Stretch, a media.Anchor) image.Rectangle {
	size := src
	if !src.Empty() {
		sx, sy := float64(out.W)/float64(src.W), float64(out.H)/float64(src.H)
		switch s {
		case media.StretchFill:
			size = out
		case media.StretchUniform:
			size = src.Scale(min(sx, sy))
		case media.StretchUniformToFill:
			size = src.Scale(max(sx, sy))
		}
	}
	size.W, size.H = max(size.W, 1), max(size.H, 1)
	p := a.Place(size, out)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(size.W, size.H))}
}

// Passthrough tells if frames go out untouched.
func (l Layout) Passthrough() bool {
	return l.Source == l.Capture.Rect() && l.Content == l.Output.Rect()
}

// Map converts a point of the capture into the output frame.
func (l Layout) Map(p image.Point) image.Point {
	if l.Source.Dx() == 0 || l.Source.Dy() == 0 {
		return p
	}
	return image.Point{
		X: (p.X-l.Source.Min.X)*l.Content.Dx()/l.Source.Dx() + l.Content.Min.X,
		Y: (p.Y-l.Source.Min.Y)*l.Content.Dy()/l.Source.Dy() + l.Content.Min.Y,
	}
}

// Transformer crops and scales captured frames on a device.
type Transformer struct {
	dev    Device
	layout Layout
	scaler xdraw.Scaler
}

func NewTransformer(dev Device, layout Layout) *Transformer {
	return &Transformer{dev: dev, layout: layout, scaler: xdraw.BiLinear}
}

// Bind moves the transformer to another device.
func (t *Transformer) Bind(dev Device) { t.dev = dev }

func (t *Transformer) Layout() Layout     { return t.layout }
func (t *Transformer) SetLayout(l Layout) { t.layout = l }

// Apply returns the frame converted to the output layout.
// The frame itself is returned when no conversion is needed.
func (t *Transformer) Apply(frame *image.RGBA) (*image.RGBA, error) {
	l := t.layout
	if l.Passthrough() && media.SizeOf(frame.Bounds()).Eq(l.Output) {
		return frame, nil
	}
	out, err := t.dev.NewTexture(l.Output)
	if err != nil {
		return nil, err
	}
	if l.Content != out.Bounds() {
		draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)
	}
	src := l.Source.Add(frame.Bounds().Min)
	if media.SizeOf(src).Eq(media.SizeOf(l.Content)) {
		draw.Draw(out, l.Content, frame, src.Min, draw.Src)
	} else {
		t.scaler.Scale(out, l.Content, frame, src, draw.Src, nil)
	}
	return out, nil
}
