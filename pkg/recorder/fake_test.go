package recorder

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/capture"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
)

var testFormat = media.AudioFormat{SampleRate: 44100, Channels: 1, BitsPerSample: 16}

type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeTime() *fakeTime { return &fakeTime{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)} }

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// step is one AcquireNextFrame call of the fake source.
type step struct {
	frame   bool
	pointer *media.PointerInfo
	err     error
	report  error
	advance time.Duration
	audio   int
	fn      func()
}

func frames(n int, every time.Duration, audioBytes int) []step {
	out := make([]step, n)
	for i := range out {
		out[i] = step{frame: true, advance: every, audio: audioBytes}
	}
	return out
}

type fakeSource struct {
	ft       *fakeTime
	size     media.Size
	steps    []step
	buf      *audio.RollingBuffer
	startErr error
	// done is called when all steps are over.
	done func()
	// idle is a real sleep of the calls after the steps are over.
	idle time.Duration

	dev      render.Device
	failure  *capture.Failure
	acquired int
	stopped  int
}

func (s *fakeSource) Initialize(dev render.Device, _ capture.Options) error {
	s.dev = dev
	return nil
}

func (s *fakeSource) StartCapture(_ []media.RecordingSource, _ []media.Overlay, f *capture.Failure) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.failure = f
	return nil
}

func (s *fakeSource) AcquireNextFrame(timeout time.Duration) (capture.Frame, error) {
	if len(s.steps) == 0 {
		if s.done != nil {
			s.done()
		}
		if s.idle > 0 {
			time.Sleep(s.idle)
		}
		s.ft.Advance(timeout)
		return capture.Frame{}, capture.ErrTimeout
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	s.acquired++
	if st.fn != nil {
		st.fn()
	}
	s.ft.Advance(st.advance)
	if st.audio > 0 && s.buf != nil {
		_, _ = s.buf.Write(make([]byte, st.audio))
	}
	if st.report != nil {
		s.failure.Report(st.report)
		return capture.Frame{}, capture.ErrTimeout
	}
	if st.err != nil {
		return capture.Frame{}, st.err
	}
	if !st.frame {
		return capture.Frame{}, capture.ErrTimeout
	}
	img, err := s.dev.NewTexture(s.size)
	if err != nil {
		return capture.Frame{}, err
	}
	c := color.RGBA{R: uint8(s.acquired), G: 100, B: 200, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return capture.Frame{Image: img, FrameUpdateCount: 1, Pointer: st.pointer}, nil
}

func (s *fakeSource) OutputSize() media.Size { return s.size }

func (s *fakeSource) StopCapture() error {
	s.stopped++
	return nil
}

// sourceSeq makes a factory that hands out the sources in order.
func sourceSeq(list ...*fakeSource) (capture.Factory, *int) {
	n := 0
	return func() (capture.Source, error) {
		if n >= len(list) {
			return nil, errors.New("no more sources")
		}
		n++
		return list[n-1], nil
	}, &n
}

type fakeSink struct {
	mu        sync.Mutex
	clock     *sink.Clock
	dev       render.Device
	size      media.Size
	records   []media.PresentationRecord
	inits     int
	begun     int
	finalized int
	failAt    int
}

func newFakeSink(ft *fakeTime) *fakeSink { return &fakeSink{clock: sink.NewClock(ft.Now)} }

func (s *fakeSink) Initialize(dev render.Device, _ sink.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev = dev
	s.inits++
	return nil
}

func (s *fakeSink) BeginRecording(_ sink.Destination, size media.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = size
	s.begun++
	return nil
}

func (s *fakeSink) RenderFrame(rec media.PresentationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.records)+1 == s.failAt {
		return errors.New("disk is full")
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeSink) FinalizeRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized++
	return nil
}

func (s *fakeSink) Records() []media.PresentationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]media.PresentationRecord(nil), s.records...)
}

func (s *fakeSink) Clock() *sink.Clock { return s.clock }
func (s *fakeSink) Volume() int        { return 0 }

func (s *fakeSink) RenderedFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *fakeSink) FrameDelays() map[string]int64 { return nil }
func (s *fakeSink) Output() string                { return "out" }
func (s *fakeSink) Preview() *image.RGBA          { return nil }

func testOptions() Options {
	opts := DefaultOptions()
	opts.Sink.Audio = testFormat
	return opts
}

func newTestLoop(t *testing.T, opts Options, ft *fakeTime, f capture.Factory, s sink.Sink, buf *audio.RollingBuffer) *loop {
	t.Helper()
	if buf == nil {
		buf = audio.NewRollingBuffer(0)
	}
	l := newLoop(logger.Nop(), opts)
	l.m = newMetrics(nil)
	l.newDevice = render.SoftwareDeviceFactory
	l.newSource = f
	l.sink = s
	l.bridge = audio.NewBridge(buf, opts.Sink.Audio, opts.Sink.AudioEnabled && opts.Sink.Mode == sink.ModeVideo)
	l.snapshots = make(chan snapshotRequest)
	l.now = ft.Now
	l.sleep = ft.Advance
	l.yield = func() { ft.Advance(100 * time.Microsecond) }
	l.backoff.sleep = ft.Advance
	return l
}

// checkTimeline tests that records follow each other without gaps.
func checkTimeline(t *testing.T, recs []media.PresentationRecord) {
	t.Helper()
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		if want := prev.Start + prev.VideoDuration() + prev.Drift; cur.Start != want {
			t.Errorf("record %v starts at %v, want %v", i, cur.Start, want)
		}
		if cur.Start < prev.Start {
			t.Errorf("record %v goes back in time: %v < %v", i, cur.Start, prev.Start)
		}
	}
}
