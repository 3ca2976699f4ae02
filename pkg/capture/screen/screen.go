// Package screen captures displays with periodic screenshots.
package screen

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/giongto35/screen-recorder/pkg/capture"
	"github.com/giongto35/screen-recorder/pkg/lock"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/kbinani/screenshot"
	xdraw "golang.org/x/image/draw"
)

const minPollInterval = time.Millisecond

type overlay struct {
	img *image.RGBA
	at  image.Point
}

type Capture struct {
	log  *logger.Logger
	dev  render.Device
	opts capture.Options

	displays func() int
	bounds   func(int) image.Rectangle
	grab     func(image.Rectangle) (*image.RGBA, error)
	interval time.Duration

	rect     image.Rectangle
	overlays []overlay

	mu             sync.Mutex
	latest         *image.RGBA
	updates        int
	overlayUpdates int

	ready *lock.Event
	done  chan struct{}
	wg    sync.WaitGroup
}

func New(log *logger.Logger) *Capture {
	return &Capture{
		log:      log.Component("screen"),
		displays: screenshot.NumActiveDisplays,
		bounds:   screenshot.GetDisplayBounds,
		grab:     screenshot.CaptureRect,
	}
}

// Factory returns a constructor of screen captures for the recorder restarts.
func Factory(log *logger.Logger) capture.Factory {
	return func() (capture.Source, error) { return New(log), nil }
}

func (c *Capture) Initialize(dev render.Device, opts capture.Options) error {
	c.dev = dev
	c.opts = opts
	c.interval = time.Second / 2
	if opts.Fps > 0 {
		c.interval = max(time.Second/time.Duration(opts.Fps)/2, minPollInterval)
	}
	return nil
}

func (c *Capture) StartCapture(sources []media.RecordingSource, overlays []media.Overlay, failure *capture.Failure) error {
	if c.dev == nil {
		return fmt.Errorf("screen: capture is not initialized")
	}
	if len(sources) == 0 {
		return fmt.Errorf("screen: no sources")
	}
	var area image.Rectangle
	for _, s := range sources {
		r, err := c.sourceRect(s)
		if err != nil {
			return err
		}
		area = area.Union(r)
	}
	c.rect = area
	c.overlays = c.overlays[:0]
	for _, o := range overlays {
		ov, err := c.loadOverlay(o)
		if err != nil {
			c.log.Warn().Err(err).Msgf("overlay %v skipped", o.ID)
			continue
		}
		c.overlays = append(c.overlays, ov)
	}

	c.ready = lock.NewEvent()
	c.done = make(chan struct{})
	c.mu.Lock()
	c.latest, c.updates, c.overlayUpdates = nil, 0, len(c.overlays)
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(failure)
	c.log.Info().Msgf("capture of %v (%v) every %v", area, media.SizeOf(area), c.interval)
	return nil
}

func (c *Capture) sourceRect(s media.RecordingSource) (image.Rectangle, error) {
	if s.Type != media.SourceDisplay {
		return image.Rectangle{}, fmt.Errorf("screen: %v sources are not supported", s.Type)
	}
	i := 0
	if s.Path != "" {
		n, err := strconv.Atoi(s.Path)
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("screen: bad display index %q", s.Path)
		}
		i = n
	}
	if i < 0 || i >= c.displays() {
		return image.Rectangle{}, capture.Classify(capture.StageEnumOutputs,
			fmt.Errorf("display %v: %w", i, capture.ErrOutputNotFound), c.dev)
	}
	r := c.bounds(i)
	if !s.SourceRect.Empty() {
		r = s.SourceRect.Add(r.Min).Intersect(r)
	}
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("screen: empty capture area of display %v", i)
	}
	return r, nil
}

func (c *Capture) loadOverlay(o media.Overlay) (overlay, error) {
	if o.Source.Type != media.SourceImage {
		return overlay{}, fmt.Errorf("%v overlays are not supported", o.Source.Type)
	}
	f, err := os.Open(o.Source.Path)
	if err != nil {
		return overlay{}, err
	}
	defer func() { _ = f.Close() }()
	src, _, err := image.Decode(f)
	if err != nil {
		return overlay{}, err
	}
	size := media.SizeOf(src.Bounds())
	if !o.Size.Empty() {
		size = o.Size
	}
	img := image.NewRGBA(size.Rect())
	xdraw.ApproxBiLinear.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
	at := o.Anchor.Place(size, media.SizeOf(c.rect)).Add(o.Offset)
	return overlay{img: img, at: at}, nil
}

func (c *Capture) run(failure *capture.Failure) {
	defer c.wg.Done()
	t := time.NewTicker(c.interval)
	defer t.Stop()

	var prev *image.RGBA
	for {
		img, err := c.grab(c.rect)
		if err != nil {
			c.log.Error().Err(err).Msg("screenshot")
			failure.Report(capture.Classify(capture.StageFrameInfo, fmt.Errorf("%w: %v", capture.ErrAccessLost, err), nil))
			return
		}
		if prev == nil || !bytes.Equal(prev.Pix, img.Pix) {
			c.mu.Lock()
			c.latest = img
			c.updates++
			c.mu.Unlock()
			c.ready.Set()
		}
		prev = img

		select {
		case <-c.done:
			return
		case <-t.C:
		}
	}
}

func (c *Capture) AcquireNextFrame(timeout time.Duration) (capture.Frame, error) {
	if c.ready == nil || !c.ready.Wait(timeout) {
		return capture.Frame{}, capture.ErrTimeout
	}
	c.mu.Lock()
	img, updates, overlayUpdates := c.latest, c.updates, c.overlayUpdates
	c.updates, c.overlayUpdates = 0, 0
	c.mu.Unlock()
	if img == nil {
		return capture.Frame{}, capture.ErrTimeout
	}

	tex, err := render.Clone(c.dev, img)
	if err != nil {
		return capture.Frame{}, capture.Classify(capture.StageFrameInfo, err, c.dev)
	}
	for _, o := range c.overlays {
		at := o.at.Add(tex.Bounds().Min)
		draw.Draw(tex, image.Rectangle{Min: at, Max: at.Add(o.img.Bounds().Size())}, o.img, image.Point{}, draw.Over)
	}
	return capture.Frame{Image: tex, FrameUpdateCount: updates, OverlayUpdateCount: overlayUpdates}, nil
}

func (c *Capture) OutputSize() media.Size { return media.SizeOf(c.rect) }

func (c *Capture) StopCapture() error {
	if c.done == nil {
		return nil
	}
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.wg.Wait()
	return nil
}
