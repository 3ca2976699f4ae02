// Package file writes recordings into the file system.
//
// A video recording is a folder with frame files, audio.wav and
// an ffconcat file with exact frame durations that can be muxed with:
//
//	ffmpeg -f concat -i input.txt -i audio.wav -pix_fmt yuv420p out.mp4
package file

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	oss "github.com/giongto35/screen-recorder/pkg/os"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/hashicorp/go-multierror"
)

const lockFile = ".recording.lock"

type Sink struct {
	log   *logger.Logger
	dev   render.Device
	opts  sink.Options
	clock *sink.Clock
	vol   *audio.VolumeMeter
	now   func() time.Time

	active  bool
	dst     sink.Destination
	dir     string
	out     string
	tmp     bool
	size    media.Size
	lock    *oss.Flock
	frames  *frameWriter
	wav     *wavStream
	entries []entry
	delays  map[string]int64

	rendered  int
	lastStart media.Ticks

	mu      sync.Mutex
	preview *image.RGBA
}

func New(log *logger.Logger) *Sink {
	return &Sink{
		log:   log.Component("sink"),
		clock: sink.NewClock(nil),
		vol:   audio.NewVolumeMeter(media.DefaultAudioFormat.SampleRate),
		now:   time.Now,
	}
}

func (s *Sink) Initialize(dev render.Device, opts sink.Options) error {
	if dev == nil {
		return errors.New("sink: no device")
	}
	s.dev = dev
	s.mu.Lock()
	s.preview = nil
	s.mu.Unlock()
	if s.active {
		s.log.Debug().Msg("moved to a new device")
		return nil
	}
	if opts.Mode == sink.ModeVideo && !opts.PreviewOnly && opts.Fps <= 0 {
		return fmt.Errorf("sink: bad frame rate %v", opts.Fps)
	}
	if opts.AudioEnabled && !opts.Audio.Valid() {
		return fmt.Errorf("sink: bad audio format %+v", opts.Audio)
	}
	s.opts = opts
	if opts.Audio.Valid() {
		s.vol = audio.NewVolumeMeter(opts.Audio.SampleRate)
	}
	return nil
}

func (s *Sink) BeginRecording(dst sink.Destination, size media.Size) (err error) {
	if s.dev == nil {
		return errors.New("sink: not initialized")
	}
	if s.active {
		return errors.New("sink: recording is in progress")
	}
	if size.Empty() {
		return fmt.Errorf("sink: bad frame size %v", size)
	}
	s.dst, s.size = dst, size
	s.dir, s.out, s.tmp = "", "", false
	s.frames, s.wav, s.lock = nil, nil, nil
	s.entries, s.delays = nil, make(map[string]int64)
	s.rendered, s.lastStart = 0, -1
	s.vol.Reset()

	if s.opts.PreviewOnly {
		s.active = true
		s.log.Info().Msgf("preview of %v", size)
		return nil
	}
	if dst.Stream == nil && dst.Path == "" {
		return errors.New("sink: empty destination")
	}

	if s.opts.Mode == sink.ModeScreenshot {
		if dst.Stream == nil {
			s.out = dst.Path
			if filepath.Ext(s.out) == "" {
				s.out += ".png"
			}
			if err = oss.CheckCreateDir(filepath.Dir(s.out)); err != nil {
				return err
			}
		}
		s.active = true
		return nil
	}

	if dst.Stream != nil {
		if s.dir, err = os.MkdirTemp("", "srec_"); err != nil {
			return err
		}
		s.tmp = true
	} else {
		name := parseName(filepath.Base(dst.Path), s.opts.Source, s.now())
		s.dir = filepath.Join(filepath.Dir(dst.Path), name)
		if err = oss.CheckCreateDir(s.dir); err != nil {
			return err
		}
		s.out = s.dir
	}

	defer func() {
		if err != nil {
			s.cleanup()
		}
	}()
	if s.lock, err = oss.NewFileLock(filepath.Join(s.dir, lockFile)); err != nil {
		return err
	}
	if err = s.lock.TryLock(); err != nil {
		s.lock = nil
		return fmt.Errorf("sink: %v: %w", s.dir, err)
	}
	if s.opts.Mode == sink.ModeVideo {
		if s.frames, err = newFrameWriter(s.dir, s.opts.FrameFormat); err != nil {
			return err
		}
		if s.opts.AudioEnabled {
			if s.wav, err = newWavStream(s.dir, s.opts.Audio); err != nil {
				return err
			}
		}
	}
	s.active = true
	s.log.Info().Msgf("%v recording into [%v]", s.opts.Mode, dst)
	return nil
}

func (s *Sink) cleanup() {
	if s.wav != nil {
		_ = s.wav.Close()
		s.wav = nil
	}
	if s.lock != nil {
		_ = s.lock.Release()
		s.lock = nil
	}
	if s.tmp {
		_ = os.RemoveAll(s.dir)
	}
}

func (s *Sink) RenderFrame(rec media.PresentationRecord) error {
	if !s.active {
		return errors.New("sink: not recording")
	}
	if rec.Frame == nil {
		return errors.New("sink: record without a frame")
	}
	if s.rendered > 0 && rec.Start < s.lastStart {
		return fmt.Errorf("%w: %v < %v", sink.ErrOutOfOrder, rec.Start, s.lastStart)
	}
	if s.frames != nil {
		if err := s.frames.Err(); err != nil {
			return err
		}
	}
	if s.opts.AudioEnabled && len(rec.Audio) > 0 {
		s.vol.Measure(rec.Audio)
	}

	switch {
	case s.opts.PreviewOnly:
		if err := s.updatePreview(rec.Frame); err != nil {
			return err
		}
	case s.opts.Mode == sink.ModeVideo:
		name := s.frames.Write(rec.Frame)
		s.entries = append(s.entries, entry{name: name, duration: rec.Duration})
		if s.wav != nil && len(rec.Audio) > 0 {
			if err := s.wav.Write(rec.Audio); err != nil {
				return err
			}
		}
	case s.opts.Mode == sink.ModeSlideshow:
		path := filepath.Join(s.dir, fmt.Sprintf("%d.png", s.rendered))
		if err := render.SavePNG(path, rec.Frame); err != nil {
			return err
		}
		var delay int64
		if s.rendered > 0 {
			delay = rec.Duration.Millis()
		}
		s.delays[path] = delay
	case s.opts.Mode == sink.ModeScreenshot:
		if err := s.screenshot(rec.Frame); err != nil {
			return err
		}
	}
	s.rendered++
	s.lastStart = rec.Start
	return nil
}

func (s *Sink) screenshot(img *image.RGBA) error {
	if s.dst.Stream == nil {
		return render.SavePNG(s.out, img)
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return err
	}
	_, err = s.dst.Stream.Write(data)
	return err
}

func (s *Sink) updatePreview(img *image.RGBA) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil || !media.SizeOf(s.preview.Bounds()).Eq(media.SizeOf(img.Bounds())) {
		if s.preview, err = s.dev.NewTexture(media.SizeOf(img.Bounds())); err != nil {
			return err
		}
	}
	return s.dev.Copy(s.preview, img)
}

func (s *Sink) FinalizeRecording() error {
	if !s.active {
		return nil
	}
	s.active = false

	var result *multierror.Error
	if s.frames != nil {
		result = multierror.Append(result, s.frames.Close())
	}
	if s.wav != nil {
		result = multierror.Append(result, s.wav.Close())
		s.wav = nil
	}
	if s.opts.Mode == sink.ModeVideo && s.dir != "" {
		result = multierror.Append(result, writeDemuxFile(s.dir, s.entries, demuxMeta{
			fps:   s.opts.Fps,
			audio: s.audioFormat(),
			size:  s.size,
			frame: s.frames.format,
		}))
	}
	if s.lock != nil {
		result = multierror.Append(result, s.lock.Release())
		s.lock = nil
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	switch {
	case s.tmp:
		result = multierror.Append(result, compress(s.dir, s.dst.Stream))
		result = multierror.Append(result, os.RemoveAll(s.dir))
	case s.opts.Zip && s.dir != "":
		zipped := s.dir + ".zip"
		if err := compressToFile(s.dir, zipped); err != nil {
			result = multierror.Append(result, err)
			break
		}
		result = multierror.Append(result, os.RemoveAll(s.dir))
		s.out = zipped
	}
	s.log.Info().Msgf("%v frames written into [%v]", s.rendered, s.dst)
	return result.ErrorOrNil()
}

func (s *Sink) audioFormat() media.AudioFormat {
	if !s.opts.AudioEnabled {
		return media.AudioFormat{}
	}
	return s.opts.Audio
}

func (s *Sink) Clock() *sink.Clock  { return s.clock }
func (s *Sink) Volume() int         { return s.vol.Level() }
func (s *Sink) RenderedFrames() int { return s.rendered }
func (s *Sink) Output() string      { return s.out }

func (s *Sink) FrameDelays() map[string]int64 {
	out := make(map[string]int64, len(s.delays))
	for k, v := range s.delays {
		out[k] = v
	}
	return out
}

func (s *Sink) Preview() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

var _ sink.Sink = (*Sink)(nil)
