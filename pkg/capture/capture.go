// Package capture defines what the recorder needs from a frame source.
package capture

import (
	"errors"
	"image"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
)

// ErrTimeout is returned by AcquireNextFrame when nothing new arrived in time.
var ErrTimeout = errors.New("capture: no new frame")

// Frame is a single acquisition result. The caller owns Image.
type Frame struct {
	Image *image.RGBA
	// Pointer is non-nil when the pointer state changed.
	Pointer            *media.PointerInfo
	FrameUpdateCount   int
	OverlayUpdateCount int
}

// Changed tells if the frame carries new content.
func (f Frame) Changed() bool {
	return f.FrameUpdateCount > 0 || f.OverlayUpdateCount > 0 || (f.Pointer != nil && f.Pointer.Shape != nil)
}

type Options struct {
	Fps    int
	Cursor bool
}

// Source produces frames for the recorder.
//
// Initialize, AcquireNextFrame and OutputSize are called from the
// recorder goroutine only. A source that captures in the background
// reports its failures through the Failure given to StartCapture.
type Source interface {
	Initialize(dev render.Device, opts Options) error
	StartCapture(sources []media.RecordingSource, overlays []media.Overlay, failure *Failure) error
	AcquireNextFrame(timeout time.Duration) (Frame, error)
	OutputSize() media.Size
	StopCapture() error
}

// Factory makes a new source, used on a restart after failures.
type Factory func() (Source, error)
