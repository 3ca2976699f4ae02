package media

import (
	"fmt"
	"image"
)

type Size struct {
	W, H int
}

func SizeOf(r image.Rectangle) Size { return Size{W: r.Dx(), H: r.Dy()} }

func (s Size) Empty() bool           { return s.W <= 0 || s.H <= 0 }
func (s Size) Rect() image.Rectangle { return image.Rect(0, 0, s.W, s.H) }
func (s Size) String() string        { return fmt.Sprintf("%vx%v", s.W, s.H) }
func (s Size) Eq(other Size) bool    { return s.W == other.W && s.H == other.H }
func (s Size) Fits(other Size) bool  { return s.W <= other.W && s.H <= other.H }
func (s Size) Even() Size            { return Size{W: s.W - s.W%2, H: s.H - s.H%2} }
func (s Size) Scale(f float64) Size  { return Size{W: int(float64(s.W) * f), H: int(float64(s.H) * f)} }
func (s Size) Area() int             { return s.W * s.H }

// MakeEven shrinks the rectangle so that both of its sides have even length.
// Most video encoders reject odd frame dimensions.
func MakeEven(r image.Rectangle) image.Rectangle {
	if r.Dx()%2 != 0 {
		r.Max.X--
	}
	if r.Dy()%2 != 0 {
		r.Max.Y--
	}
	return r
}

// Stretch tells how content is scaled into a frame of a different size.
type Stretch int

const (
	StretchNone Stretch = iota
	StretchFill
	StretchUniform
	StretchUniformToFill
)

var stretchNames = map[string]Stretch{
	"none":          StretchNone,
	"fill":          StretchFill,
	"uniform":       StretchUniform,
	"uniformtofill": StretchUniformToFill,
}

func ParseStretch(s string) (Stretch, error) {
	if v, ok := stretchNames[s]; ok {
		return v, nil
	}
	return StretchUniform, fmt.Errorf("unknown stretch mode: %v", s)
}

// Anchor is the placement of content that doesn't cover the whole frame.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTopLeft
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

var anchorNames = map[string]Anchor{
	"center":      AnchorCenter,
	"topleft":     AnchorTopLeft,
	"top":         AnchorTop,
	"topright":    AnchorTopRight,
	"left":        AnchorLeft,
	"right":       AnchorRight,
	"bottomleft":  AnchorBottomLeft,
	"bottom":      AnchorBottom,
	"bottomright": AnchorBottomRight,
}

func ParseAnchor(s string) (Anchor, error) {
	if v, ok := anchorNames[s]; ok {
		return v, nil
	}
	return AnchorCenter, fmt.Errorf("unknown anchor: %v", s)
}

// Place returns the position of content of the given size inside the frame.
func (a Anchor) Place(content, frame Size) image.Point {
	dx, dy := frame.W-content.W, frame.H-content.H
	var p image.Point
	switch a {
	case AnchorTopLeft, AnchorLeft, AnchorBottomLeft:
		p.X = 0
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		p.X = dx
	default:
		p.X = dx / 2
	}
	switch a {
	case AnchorTopLeft, AnchorTop, AnchorTopRight:
		p.Y = 0
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		p.Y = dy
	default:
		p.Y = dy / 2
	}
	return p
}
