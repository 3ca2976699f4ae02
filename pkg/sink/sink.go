// Package sink defines the output side of the recorder.
package sink

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
)

// ErrOutOfOrder is returned for a record that starts before the previous one.
var ErrOutOfOrder = errors.New("sink: record timestamps must not decrease")

type Mode int

const (
	ModeVideo Mode = iota
	ModeSlideshow
	ModeScreenshot
)

func (m Mode) String() string {
	switch m {
	case ModeVideo:
		return "video"
	case ModeSlideshow:
		return "slideshow"
	case ModeScreenshot:
		return "screenshot"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeVideo, ModeSlideshow, ModeScreenshot} {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeVideo, fmt.Errorf("unknown recorder mode: %v", s)
}

type Options struct {
	Mode Mode
	Fps  int

	Audio        media.AudioFormat
	AudioEnabled bool

	// PreviewOnly keeps the last frame in memory and writes nothing.
	PreviewOnly bool
	// FrameFormat of video frames: raw or png.
	FrameFormat string
	// Source is the name of the recorded source used in output names.
	Source string
	Zip    bool
}

// Destination is either a file system path or a stream.
type Destination struct {
	Path   string
	Stream io.Writer
}

func (d Destination) String() string {
	if d.Stream != nil {
		return "<stream>"
	}
	return d.Path
}

// Sink consumes presentation records.
//
// All calls come from the recorder goroutine. Initialize may be called
// again during a recording to move the sink onto a new device.
type Sink interface {
	Initialize(dev render.Device, opts Options) error
	BeginRecording(dst Destination, size media.Size) error
	RenderFrame(rec media.PresentationRecord) error
	// FinalizeRecording flushes all queued writes.
	FinalizeRecording() error

	Clock() *Clock
	Volume() int
	RenderedFrames() int
	// FrameDelays of slideshow images in milliseconds.
	FrameDelays() map[string]int64
	// Output is the path of the written data, it is empty for streams.
	Output() string
	Preview() *image.RGBA
}
