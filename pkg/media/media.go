package media

import (
	"image"
	"strconv"

	"github.com/gofrs/uuid"
)

// PresentationRecord is one timestamped unit of video and audio
// handed to an output sink.
//
// Duration is the content duration of the record: the video duration
// corrected by the audio Drift of this record. Start of the next record
// equals Start + VideoDuration() + Drift.
type PresentationRecord struct {
	Start    Ticks
	Duration Ticks
	Drift    Ticks
	Frame    *image.RGBA
	Audio    []byte
	// Padded marks audio that is synthesized silence.
	Padded bool
}

func (r PresentationRecord) VideoDuration() Ticks { return r.Duration - r.Drift }
func (r PresentationRecord) End() Ticks           { return r.Start + r.Duration }

// PointerInfo is the mouse pointer state known to the recorder.
// A capture source sends updates, the recorder keeps one current copy.
type PointerInfo struct {
	Position image.Point
	Hotspot  image.Point
	Visible  bool
	// Shape is nil when the update doesn't carry a new pointer image.
	Shape        *image.RGBA
	ShapeUpdated bool
}

// Update merges a newer pointer state.
func (p *PointerInfo) Update(u PointerInfo) {
	p.Position = u.Position
	p.Visible = u.Visible
	if u.Shape != nil {
		p.Shape = u.Shape
		p.Hotspot = u.Hotspot
		p.ShapeUpdated = true
	}
}

type SourceType int

const (
	SourceDisplay SourceType = iota
	SourceWindow
	SourceCamera
	SourceImage
)

func (t SourceType) String() string {
	switch t {
	case SourceDisplay:
		return "display"
	case SourceWindow:
		return "window"
	case SourceCamera:
		return "camera"
	case SourceImage:
		return "image"
	}
	return strconv.Itoa(int(t))
}

// RecordingSource describes one input of a recording.
// It is passed by value and never changes during a session.
type RecordingSource struct {
	ID         uuid.UUID
	Type       SourceType
	Path       string
	SourceRect image.Rectangle
	OutputSize Size
	Anchor     Anchor
	Stretch    Stretch
	Cursor     bool
}

func NewRecordingSource(t SourceType, path string) RecordingSource {
	return RecordingSource{ID: uuid.Must(uuid.NewV4()), Type: t, Path: path, Stretch: StretchUniform, Cursor: true}
}

// Overlay is a source drawn on top of the main capture.
type Overlay struct {
	ID     uuid.UUID
	Source RecordingSource
	Offset image.Point
	Size   Size
	Anchor Anchor
}

func NewOverlay(src RecordingSource, offset image.Point, size Size, anchor Anchor) Overlay {
	return Overlay{ID: uuid.Must(uuid.NewV4()), Source: src, Offset: offset, Size: size, Anchor: anchor}
}
