package screen

import (
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giongto35/screen-recorder/pkg/capture"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
)

func fakeCapture(grab func(image.Rectangle) (*image.RGBA, error)) *Capture {
	c := New(logger.Nop())
	c.displays = func() int { return 1 }
	c.bounds = func(int) image.Rectangle { return image.Rect(0, 0, 64, 48) }
	c.grab = grab
	return c
}

func TestAcquire(t *testing.T) {
	var n atomic.Int32
	c := fakeCapture(func(r image.Rectangle) (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		// two distinct pictures, then a still screen
		if v := n.Add(1); v <= 2 {
			img.Pix[0] = byte(v)
		} else {
			img.Pix[0] = 2
		}
		return img, nil
	})
	if err := c.Initialize(render.NewSoftwareDevice(), capture.Options{Fps: 100}); err != nil {
		t.Fatal(err)
	}
	src := media.NewRecordingSource(media.SourceDisplay, "0")
	src.SourceRect = image.Rect(0, 0, 32, 32)
	failure := capture.NewFailure()
	if err := c.StartCapture([]media.RecordingSource{src}, nil, failure); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.StopCapture() }()

	if s := c.OutputSize(); s.W != 32 || s.H != 32 {
		t.Errorf("wrong output size %v", s)
	}

	frame, err := c.AcquireNextFrame(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Image == nil || frame.FrameUpdateCount == 0 {
		t.Fatalf("expected a new frame, got %+v", frame)
	}

	// the screen stops changing after the second grab
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err = c.AcquireNextFrame(50 * time.Millisecond); errors.Is(err, capture.ErrTimeout) {
			break
		}
	}
	if !errors.Is(err, capture.ErrTimeout) {
		t.Errorf("still screen should time out, got %v", err)
	}
	if failure.Signaled() {
		t.Errorf("unexpected failure %v", failure.Err())
	}
}

func TestGrabFailure(t *testing.T) {
	c := fakeCapture(func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("no display") })
	_ = c.Initialize(render.NewSoftwareDevice(), capture.Options{Fps: 30})
	failure := capture.NewFailure()
	if err := c.StartCapture([]media.RecordingSource{media.NewRecordingSource(media.SourceDisplay, "")}, nil, failure); err != nil {
		t.Fatal(err)
	}
	_ = c.StopCapture()

	var ce *capture.Error
	if !errors.As(failure.Err(), &ce) || !ce.Recoverable {
		t.Errorf("grab failure should be recoverable, got %v", failure.Err())
	}
}

func TestSources(t *testing.T) {
	c := fakeCapture(nil)
	_ = c.Initialize(render.NewSoftwareDevice(), capture.Options{})

	err := c.StartCapture([]media.RecordingSource{media.NewRecordingSource(media.SourceCamera, "cam")}, nil, capture.NewFailure())
	if err == nil {
		t.Errorf("camera source should be rejected")
	}

	err = c.StartCapture([]media.RecordingSource{media.NewRecordingSource(media.SourceDisplay, "3")}, nil, capture.NewFailure())
	if !errors.Is(err, capture.ErrOutputNotFound) {
		t.Errorf("expected missing output, got %v", err)
	}
}
