package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"time"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/capture"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
)

const (
	pauseWait      = 10 * time.Millisecond
	snapshotLayout = "2006-01-02 15-04-05.000"
)

var (
	errSinkWrite = errors.New("sink write")
	errNoFrame   = errors.New("recorder: no frame yet")
)

type snapshotRequest struct {
	path string
	done chan error
}

// loop is a single recording session.
// Everything here except the snapshot channel is owned by the loop goroutine.
type loop struct {
	log  *logger.Logger
	opts Options
	obs  Observer
	m    *metrics

	newDevice  render.DeviceFactory
	newSource  capture.Factory
	sink       sink.Sink
	bridge     *audio.Bridge
	sources    []media.RecordingSource
	overlays   []media.Overlay
	snapshots  chan snapshotRequest
	onStart    func()
	onFinalize func()

	dev     render.Device
	src     capture.Source
	failure *capture.Failure
	store   *FrameStore
	tf      *render.Transformer
	cursor  *render.Cursor
	backoff *Backoff
	output  media.Size

	pointer       media.PointerInfo
	havePointer   bool
	havePremature bool
	lastStart     media.Ticks
	frameNr       int
	lastSnapshot  time.Time

	now   func() time.Time
	sleep func(time.Duration)
	yield func()
}

func (l *loop) mode() sink.Mode { return l.opts.Sink.Mode }

// run records until the context is canceled or a fatal error happens.
func (l *loop) run(ctx context.Context, dst sink.Destination) Result {
	var res Result
	began, err := l.start(dst)
	if err == nil {
		if err = l.record(ctx); err == nil {
			err = l.drain()
		}
	}
	res.Err = err
	if l.onFinalize != nil {
		l.onFinalize()
	}
	if began {
		res.FinalizeErr = l.sink.FinalizeRecording()
		l.sink.Clock().Stop()
	}
	l.shutdown()
	res.Path = l.sink.Output()
	res.FrameDelays = l.sink.FrameDelays()
	res.Frames = l.frameNr
	return res
}

func (l *loop) start(dst sink.Destination) (bool, error) {
	dev, err := l.newDevice()
	if err != nil {
		return false, fmt.Errorf("render device: %w", err)
	}
	l.dev = dev
	l.store = NewFrameStore(dev)
	l.tf = render.NewTransformer(dev, render.Layout{})
	l.cursor = render.NewCursor(dev)
	l.failure = capture.NewFailure()

	if err = l.startCapture(); err != nil {
		return false, err
	}
	l.relayout()
	l.output = l.tf.Layout().Output

	if err = l.sink.Initialize(dev, l.opts.Sink); err != nil {
		return false, fmt.Errorf("sink init: %w", err)
	}
	if err = l.sink.BeginRecording(dst, l.output); err != nil {
		return false, fmt.Errorf("sink begin: %w", err)
	}
	l.bridge.Clear()
	l.sink.Clock().Start()
	l.log.Info().Msgf("%v recording of %v started, frame %v", l.mode(), l.tf.Layout().Capture, l.output)
	return true, nil
}

func (l *loop) startCapture() error {
	src, err := l.newSource()
	if err != nil {
		return capture.Classify(capture.StageCreate, err, l.dev)
	}
	if err = src.Initialize(l.dev, capture.Options{Fps: l.opts.Sink.Fps, Cursor: l.opts.Cursor}); err != nil {
		return capture.Classify(capture.StageCreate, err, l.dev)
	}
	l.failure.Reset()
	if err = src.StartCapture(l.sources, l.overlays, l.failure); err != nil {
		_ = src.StopCapture()
		return capture.Classify(capture.StageCreate, err, l.dev)
	}
	l.src = src
	return nil
}

// relayout recalculates the output rectangles for the current
// capture size. The output frame size stays the same during a recording.
func (l *loop) relayout() {
	g := l.opts.Geometry
	if !l.output.Empty() {
		g.FrameSize = l.output
	}
	l.tf.SetLayout(render.NewLayout(l.src.OutputSize(), g))
}

func (l *loop) record(ctx context.Context) error {
	clock := l.sink.Clock()
	interval := l.opts.Interval()
	maxLen := media.FromDuration(l.opts.MaxFrameLength)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if l.failure.Signaled() {
			if err := l.recover(ctx); err != nil {
				return err
			}
			continue
		}
		l.serveSnapshots()
		if clock.State() == sink.ClockPaused {
			l.sleep(pauseWait)
			l.lastSnapshot = l.now()
			l.bridge.Clear()
			continue
		}

		frame, err := l.src.AcquireNextFrame(l.opts.AcquireTimeout(l.havePremature))
		if ctx.Err() != nil {
			return nil
		}
		status := AcquireOK
		switch {
		case err == nil:
			l.store.Put(frame.Image)
			if frame.Pointer != nil {
				l.pointer.Update(*frame.Pointer)
				l.havePointer = true
			}
		case errors.Is(err, capture.ErrTimeout):
			status = AcquireTimeout
		default:
			l.failure.Report(capture.Classify(capture.StageFrameInfo, err, l.dev))
			continue
		}

		elapsed := clock.Time() - l.lastStart
		video := l.mode() == sink.ModeVideo
		p := Pace(PaceInput{
			Elapsed:             elapsed,
			Interval:            interval,
			MaxFrameLength:      maxLen,
			Acquire:             status,
			FirstFrame:          l.frameNr == 0,
			HaveFrame:           !l.store.Empty(),
			HavePremature:       l.havePremature,
			SourceChanged:       status == AcquireOK && frame.Changed(),
			PointerShapeChanged: video && l.opts.Cursor && l.pointer.ShapeUpdated,
			SnapshotDue:         l.opts.snapshotsEnabled() && l.snapshotDue(),
			FixedFramerate:      l.opts.FixedFramerate,
			Slideshow:           l.mode() == sink.ModeSlideshow,
		})
		l.m.decisions.WithLabelValues(p.Decision.String()).Inc()

		switch p.Decision {
		case Retry:
			l.sleep(time.Millisecond)
			continue
		case Hold:
			if p.Cache {
				if err := l.store.PromoteCurrentToPrevious(); err != nil {
					l.failure.Report(capture.Classify(capture.StageFrameInfo, err, l.dev))
					continue
				}
				l.havePremature = true
			}
			l.store.TakeCurrent()
			l.wait(p.Sleep)
			continue
		case SkipDelay:
			l.pointer.ShapeUpdated = false
		}

		if err := l.deliver(elapsed); err != nil {
			if errors.Is(err, errSinkWrite) {
				return err
			}
			cerr := capture.Classify(capture.StageFrameInfo, err, l.dev)
			if !cerr.Recoverable {
				return cerr
			}
			l.failure.Report(cerr)
			continue
		}
		if l.mode() == sink.ModeScreenshot {
			return nil
		}
	}
}

func (l *loop) wait(mode SleepMode) {
	switch mode {
	case SleepCoarse:
		l.sleep(time.Millisecond)
	case SleepYield:
		l.yield()
	}
}

// deliver renders the current frame, or a repeat of the previous one,
// as the next record.
func (l *loop) deliver(d media.Ticks) error {
	restored := false
	if l.store.Current() == nil {
		ok, err := l.store.RestoreFromPrevious()
		if err != nil {
			return err
		}
		restored = ok
	}
	if l.store.Current() == nil {
		size := l.tf.Layout().Capture
		if size.Empty() {
			size = l.output
		}
		if err := l.store.SynthesizeBlank(size); err != nil {
			return err
		}
	}
	if !restored && l.mode() != sink.ModeScreenshot {
		if err := l.store.PromoteCurrentToPrevious(); err != nil {
			return err
		}
	}
	if l.frameNr == 0 && l.onStart != nil {
		l.onStart()
	}
	return l.render(l.store.TakeCurrent(), d)
}

func (l *loop) render(frame *image.RGBA, d media.Ticks) error {
	if l.src != nil {
		if size := l.src.OutputSize(); !size.Empty() && !size.Eq(l.tf.Layout().Capture) {
			l.relayout()
		}
	}
	out, err := l.tf.Apply(frame)
	if err != nil {
		return err
	}
	if l.opts.Cursor && l.havePointer {
		if err := l.cursor.Draw(out, &l.pointer, l.tf.Layout()); err != nil {
			l.log.Warn().Err(err).Msg("couldn't draw the pointer")
		}
	}
	if l.opts.Timestamp {
		render.Timestamp(out, l.lastStart.Duration())
	}
	if l.opts.snapshotsEnabled() && l.snapshotDue() {
		l.saveSnapshot(out)
	}

	var chunk audio.Chunk
	drift := l.bridge.TotalDrift()
	if l.mode() == sink.ModeVideo {
		chunk = l.bridge.Grab(d)
	}
	rec := media.PresentationRecord{
		Start:    l.lastStart + drift,
		Duration: d + chunk.Drift,
		Drift:    chunk.Drift,
		Frame:    out,
		Audio:    chunk.Data,
		Padded:   chunk.Padded,
	}
	if err := l.sink.RenderFrame(rec); err != nil {
		return fmt.Errorf("%w: %w", errSinkWrite, err)
	}
	l.frameNr++
	l.lastStart += d
	l.havePremature = false
	l.pointer.ShapeUpdated = false

	l.m.frames.Inc()
	l.m.drift.Set(l.bridge.TotalDrift().Seconds())
	vol := l.sink.Volume()
	l.m.volume.Set(float64(vol))
	l.obs.OnFrame(l.frameNr, l.now())
	l.obs.OnVolume(vol)
	return nil
}

// drain pushes the last cached frame up to the current media time.
func (l *loop) drain() error {
	if l.store.Previous() == nil {
		return nil
	}
	d := max(l.sink.Clock().Time()-l.lastStart, 0)
	if _, err := l.store.RestoreFromPrevious(); err != nil {
		return err
	}
	l.log.Debug().Msgf("drain frame of %v", d)
	return l.render(l.store.TakeCurrent(), d)
}

func (l *loop) snapshotDue() bool {
	return l.lastSnapshot.IsZero() || l.now().Sub(l.lastSnapshot) > l.opts.SnapshotInterval
}

func (l *loop) saveSnapshot(img *image.RGBA) {
	l.lastSnapshot = l.now()
	path := filepath.Join(l.opts.SnapshotDir, l.lastSnapshot.Format(snapshotLayout)+".png")
	if err := render.SavePNG(path, img); err != nil {
		l.log.Warn().Err(err).Msgf("snapshot [%v] has failed", path)
		return
	}
	l.obs.OnSnapshot(path)
}

func (l *loop) serveSnapshots() {
	for {
		select {
		case req := <-l.snapshots:
			req.done <- l.snapshot(req.path)
		default:
			return
		}
	}
}

// snapshot saves the last frame with the pointer on it.
func (l *loop) snapshot(path string) error {
	src := l.store.Current()
	if src == nil {
		src = l.store.Previous()
	}
	if src == nil {
		return errNoFrame
	}
	img, err := l.tf.Apply(src)
	if err != nil {
		return err
	}
	if img == src {
		if img, err = render.Clone(l.dev, src); err != nil {
			return err
		}
	}
	if l.opts.Cursor && l.havePointer {
		if err := l.cursor.Draw(img, &l.pointer, l.tf.Layout()); err != nil {
			l.log.Warn().Err(err).Msg("couldn't draw the pointer")
		}
	}
	if err = render.SavePNG(path, img); err != nil {
		return err
	}
	l.obs.OnSnapshot(path)
	return nil
}

// recover restarts the capture while its failures stay recoverable.
func (l *loop) recover(ctx context.Context) error {
	err := l.failure.Err()
	for {
		if ctx.Err() != nil {
			return nil
		}
		cerr := capture.Classify(capture.StageFrameInfo, err, l.dev)
		if cerr == nil {
			l.failure.Reset()
			return nil
		}
		if !cerr.Recoverable {
			return cerr
		}
		l.log.Warn().Err(cerr).Bool("device", cerr.DeviceLost).Msgf("capture restart in %v", l.backoff.Current())
		l.obs.OnRecoverableError(cerr)
		l.m.recoveries.Inc()

		if err = l.restart(cerr.DeviceLost); err == nil {
			l.backoff.Reset()
			l.log.Info().Msg("capture has been restarted")
			return nil
		}
		err = capture.Classify(capture.StageCreate, err, l.dev)
	}
}

func (l *loop) restart(deviceLost bool) error {
	if l.src != nil {
		if err := l.src.StopCapture(); err != nil {
			l.log.Warn().Err(err).Msg("capture stop")
		}
		l.src = nil
	}
	l.backoff.Wait()

	if deviceLost {
		l.store.Release()
		if err := l.dev.Close(); err != nil {
			l.log.Warn().Err(err).Msg("device close")
		}
		dev, err := l.newDevice()
		if err != nil {
			return err
		}
		l.dev = dev
		l.store.Bind(dev)
		l.tf.Bind(dev)
		l.cursor.Bind(dev)
		if err = l.sink.Initialize(dev, l.opts.Sink); err != nil {
			return fmt.Errorf("sink init: %w", err)
		}
	}
	if err := l.startCapture(); err != nil {
		return err
	}
	l.relayout()
	l.pointer, l.havePointer = media.PointerInfo{}, false
	return nil
}

func (l *loop) shutdown() {
	if l.src != nil {
		if err := l.src.StopCapture(); err != nil {
			l.log.Warn().Err(err).Msg("capture stop")
		}
		l.src = nil
	}
	if l.store != nil {
		l.store.Release()
	}
	if l.dev != nil {
		_ = l.dev.Close()
	}
}

func newLoop(log *logger.Logger, opts Options) *loop {
	return &loop{
		log:     log,
		opts:    opts,
		obs:     ObserverFuncs{},
		backoff: NewBackoff(opts.Backoff),
		now:     time.Now,
		sleep:   time.Sleep,
		yield:   runtime.Gosched,
	}
}
