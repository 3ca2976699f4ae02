// Package recorder runs the capture, pacing and rendering of recordings.
package recorder

import (
	"context"
	"errors"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/capture"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/giongto35/screen-recorder/pkg/thread"
	"github.com/rs/xid"
)

var (
	ErrNotRecording = errors.New("recorder: not recording")
	ErrFinalizing   = errors.New("recorder: previous recording is being finalized")
)

// audioBufferSeconds caps the audio kept between two video frames.
const audioBufferSeconds = 5

// Components are the collaborators of a recorder.
type Components struct {
	Device  render.DeviceFactory
	Capture capture.Factory
	Sink    sink.Sink
	// Audio is optional.
	Audio    audio.Source
	Sources  []media.RecordingSource
	Overlays []media.Overlay
}

// Recorder controls recording sessions, one at a time.
type Recorder struct {
	log  *logger.Logger
	opts Options
	c    Components
	obs  observers
	m    *metrics
	buf  *audio.RollingBuffer

	mu        sync.Mutex
	id        xid.ID
	status    Status
	cancel    context.CancelFunc
	done      chan struct{}
	result    Result
	snapshots chan snapshotRequest

	// test hooks
	tune func(*loop)
}

func New(opts Options, c Components, log *logger.Logger) *Recorder {
	if c.Device == nil {
		c.Device = render.SoftwareDeviceFactory
	}
	format := opts.Sink.Audio
	if c.Audio != nil {
		format = c.Audio.Format()
		opts.Sink.Audio = format
	}
	limit := 0
	if format.Valid() {
		limit = format.SampleRate * format.FrameBytes() * audioBufferSeconds
	}
	return &Recorder{
		log:  log.Component("recorder"),
		opts: opts,
		c:    c,
		m:    newMetrics(opts.Registerer),
		buf:  audio.NewRollingBuffer(limit),
	}
}

// SetObserver adds a receiver of recorder notifications.
func (r *Recorder) SetObserver(o Observer) { r.obs.add(o) }

// Begin starts a new recording into the destination or resumes a paused one.
// The recording goes on until End or the context cancellation.
func (r *Recorder) Begin(ctx context.Context, dst sink.Destination) error {
	if r.Status() == StatusPaused {
		return r.Resume()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case StatusRecording, StatusPaused:
		r.log.Warn().Str("sid", r.id.String()).Msg("already recording")
		return nil
	case StatusFinalizing:
		return ErrFinalizing
	}

	r.id = xid.New()
	log := r.log.Session(r.id.String())

	opts := r.opts
	audioOn := opts.Sink.AudioEnabled && r.c.Audio != nil
	if audioOn {
		r.buf.Clear()
		if err := r.c.Audio.Start(r.buf); err != nil {
			log.Error().Err(err).Msg("audio source has failed, recording without sound")
			audioOn = false
		}
	}

	l := newLoop(log, opts)
	l.obs = &r.obs
	l.m = r.m
	l.newDevice = r.c.Device
	l.newSource = r.c.Capture
	l.sink = r.c.Sink
	l.bridge = audio.NewBridge(r.buf, opts.Sink.Audio, opts.Sink.AudioEnabled && opts.Sink.Mode == sink.ModeVideo)
	l.sources = r.c.Sources
	l.overlays = r.c.Overlays
	l.snapshots = make(chan snapshotRequest)
	l.onStart = func() {
		if r.Status() == StatusRecording {
			r.obs.OnStatus(StatusRecording)
		}
	}
	l.onFinalize = func() { r.setStatus(StatusFinalizing) }
	if r.tune != nil {
		r.tune(l)
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.snapshots = l.snapshots
	r.result = Result{}
	r.status = StatusRecording
	done := r.done

	log.Info().Msgf("recording into [%v]", dst)
	thread.Go(func() {
		res := l.run(ctx, dst)
		cancel()
		r.finish(log, res, audioOn, done)
	})
	return nil
}

func (r *Recorder) finish(log *logger.Logger, res Result, audioOn bool, done chan struct{}) {
	if audioOn {
		if err := r.c.Audio.Close(); err != nil {
			log.Warn().Err(err).Msg("audio source close")
		}
	}
	r.mu.Lock()
	r.result = res
	r.status = StatusIdle
	r.snapshots = nil
	r.mu.Unlock()

	r.obs.OnStatus(StatusIdle)
	if res.Failed() {
		log.Error().Err(res.Cause()).Msgf("recording has failed, %v frames in [%v]", res.Frames, res.Path)
		r.obs.OnFailed(res)
	} else {
		log.Info().Msgf("recording has finished, %v frames in [%v]", res.Frames, res.Path)
		r.obs.OnComplete(res)
	}
	close(done)
}

func (r *Recorder) setStatus(s Status) {
	r.mu.Lock()
	if r.status == s {
		r.mu.Unlock()
		return
	}
	r.status = s
	r.mu.Unlock()
	r.obs.OnStatus(s)
}

// Pause stops the presentation clock, nothing is recorded until Resume.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	clock := r.c.Sink.Clock()
	if r.status != StatusRecording || clock.State() != sink.ClockRunning {
		r.mu.Unlock()
		return ErrNotRecording
	}
	clock.Pause()
	r.status = StatusPaused
	r.mu.Unlock()
	r.obs.OnStatus(StatusPaused)
	return nil
}

func (r *Recorder) Resume() error {
	r.mu.Lock()
	if r.status != StatusPaused {
		r.mu.Unlock()
		return ErrNotRecording
	}
	r.resume()
	r.mu.Unlock()
	r.obs.OnStatus(StatusRecording)
	return nil
}

func (r *Recorder) resume() {
	r.c.Sink.Clock().Resume()
	r.status = StatusRecording
}

// End stops the recording, use Wait for the result.
func (r *Recorder) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Wait blocks until the current or the last recording is finished.
func (r *Recorder) Wait() Result {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return Result{}
	}
	<-done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Session returns the id of the current or the last recording.
func (r *Recorder) Session() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id.String()
}

// TakeSnapshot saves the last recorded frame as a PNG image.
func (r *Recorder) TakeSnapshot(path string) error {
	r.mu.Lock()
	ch, done := r.snapshots, r.done
	r.mu.Unlock()
	if ch == nil {
		return ErrNotRecording
	}
	req := snapshotRequest{path: path, done: make(chan error, 1)}
	select {
	case ch <- req:
	case <-done:
		return ErrNotRecording
	}
	return <-req.done
}

// Volume is the current audio level of the recording.
func (r *Recorder) Volume() int { return r.c.Sink.Volume() }
