package config

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/os"
	"github.com/giongto35/screen-recorder/pkg/recorder"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/spf13/pflag"
)

type RecorderConfig struct {
	Recorder   Recorder
	Capture    Capture
	Encoder    Encoder
	Audio      Audio
	Mouse      Mouse
	Output     Output
	Snapshot   Snapshot
	Recovery   Recovery
	Monitoring Monitoring
	Storage    Storage
	Log        Log
}

type Recorder struct {
	// Mode is one of: video, slideshow, screenshot.
	Mode           string
	Fps            int
	FixedFramerate bool
	MaxFrameLength time.Duration
	Timestamp      bool
}

type Capture struct {
	// Displays to record, all of them are joined into one area.
	Displays   []int
	SourceRect Rect
	Overlays   []Overlay
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Rectangle() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// Overlay is an image drawn on top of the capture.
type Overlay struct {
	Image  string
	X, Y   int
	W, H   int
	Anchor string
}

type Encoder struct {
	// FrameFormat of video frames: raw or png.
	FrameFormat string
	Width       int
	Height      int
	Stretch     string
	Anchor      string
}

type Audio struct {
	Enabled       bool
	SampleRate    int
	Channels      int
	BitsPerSample int
}

type Mouse struct {
	Cursor bool
}

type Output struct {
	// Path template of recordings with %date:<layout>%, %source% and %rand:<n>% tags.
	Path        string
	Zip         bool
	PreviewOnly bool
}

type Snapshot struct {
	Dir       string
	Interval  time.Duration
	WithVideo bool
}

type Recovery struct {
	Floor   time.Duration
	Ceiling time.Duration
	Factor  float64
}

// NewRecorderConfig loads the config from the path or from the default places.
func NewRecorderConfig(path string) (conf RecorderConfig, err error) {
	if err = LoadConfig(&conf, path); err != nil {
		return
	}
	conf.expandSpecialTags()
	return
}

// ConfigPath finds the config path flag in the args before the config is loaded.
func ConfigPath(args []string) string {
	fs := pflag.NewFlagSet("conf", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.StringP(confFlag, "c", "", "")
	_ = fs.Parse(args)
	return *path
}

const confFlag = "conf"

// ParseFlags updates config values from passed runtime flags.
// Default flag values are the current config params.
func (c *RecorderConfig) ParseFlags(fs *pflag.FlagSet, args []string) error {
	fs.StringVar(&c.Recorder.Mode, "mode", c.Recorder.Mode, "Recording mode: video, slideshow or screenshot")
	fs.IntVar(&c.Recorder.Fps, "fps", c.Recorder.Fps, "Frames per second")
	fs.BoolVar(&c.Recorder.FixedFramerate, "fixed", c.Recorder.FixedFramerate, "Render every frame interval")
	fs.IntSliceVar(&c.Capture.Displays, "display", c.Capture.Displays, "Display indexes to record")
	fs.StringVarP(&c.Output.Path, "out", "o", c.Output.Path, "Output path template")
	fs.BoolVar(&c.Output.Zip, "zip", c.Output.Zip, "Zip the recording")
	fs.BoolVar(&c.Audio.Enabled, "audio", c.Audio.Enabled, "Record audio")
	fs.BoolVar(&c.Mouse.Cursor, "cursor", c.Mouse.Cursor, "Draw the mouse pointer")
	fs.StringVar(&c.Snapshot.Dir, "snapshots", c.Snapshot.Dir, "Snapshot folder")
	fs.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	fs.BoolVar(&c.Log.Debug, "debug", c.Log.Debug, "Debug logs")
	fs.StringP(confFlag, "c", "", "Set custom configuration file path")
	return fs.Parse(args)
}

// expandSpecialTags replaces all the special tags in the config.
func (c *RecorderConfig) expandSpecialTags() {
	tag := "{user}"
	for _, dir := range []*string{&c.Output.Path, &c.Snapshot.Dir} {
		if *dir == "" || !strings.Contains(*dir, tag) {
			continue
		}
		home, err := os.GetUserHome()
		if err != nil {
			continue
		}
		*dir = strings.Replace(*dir, tag, home, -1)
		*dir = filepath.FromSlash(*dir)
	}
}

func (c *RecorderConfig) AudioFormat() media.AudioFormat {
	f := media.AudioFormat{
		SampleRate:    c.Audio.SampleRate,
		Channels:      c.Audio.Channels,
		BitsPerSample: c.Audio.BitsPerSample,
	}
	if !f.Valid() {
		return media.DefaultAudioFormat
	}
	return f
}

func (c *RecorderConfig) SinkOptions() (sink.Options, error) {
	mode, err := sink.ParseMode(strings.ToLower(c.Recorder.Mode))
	if err != nil {
		return sink.Options{}, err
	}
	fps := c.Recorder.Fps
	if fps <= 0 {
		fps = 30
	}
	format := c.Encoder.FrameFormat
	if format == "" {
		format = "raw"
	}
	return sink.Options{
		Mode:         mode,
		Fps:          fps,
		Audio:        c.AudioFormat(),
		AudioEnabled: c.Audio.Enabled,
		PreviewOnly:  c.Output.PreviewOnly,
		FrameFormat:  format,
		Source:       c.sourceName(),
		Zip:          c.Output.Zip,
	}, nil
}

func (c *RecorderConfig) sourceName() string {
	if len(c.Capture.Displays) == 0 {
		return "display0"
	}
	names := make([]string, len(c.Capture.Displays))
	for i, d := range c.Capture.Displays {
		names[i] = "display" + strconv.Itoa(d)
	}
	return strings.Join(names, "+")
}

// Options makes recorder options, zero params keep their defaults.
func (c *RecorderConfig) Options() (recorder.Options, error) {
	opts := recorder.DefaultOptions()
	so, err := c.SinkOptions()
	if err != nil {
		return opts, err
	}
	opts.Sink = so
	opts.FixedFramerate = c.Recorder.FixedFramerate
	if c.Recorder.MaxFrameLength > 0 {
		opts.MaxFrameLength = c.Recorder.MaxFrameLength
	}
	opts.Timestamp = c.Recorder.Timestamp
	opts.Cursor = c.Mouse.Cursor

	g := render.Geometry{
		SourceRect: c.Capture.SourceRect.Rectangle(),
		FrameSize:  media.Size{W: c.Encoder.Width, H: c.Encoder.Height},
		Stretch:    media.StretchUniform,
	}
	if c.Encoder.Stretch != "" {
		if g.Stretch, err = media.ParseStretch(strings.ToLower(c.Encoder.Stretch)); err != nil {
			return opts, err
		}
	}
	if c.Encoder.Anchor != "" {
		if g.Anchor, err = media.ParseAnchor(strings.ToLower(c.Encoder.Anchor)); err != nil {
			return opts, err
		}
	}
	opts.Geometry = g

	opts.SnapshotDir = c.Snapshot.Dir
	if c.Snapshot.Interval > 0 {
		opts.SnapshotInterval = c.Snapshot.Interval
	}
	opts.SnapshotsWithVideo = c.Snapshot.WithVideo

	if c.Recovery.Floor > 0 {
		opts.Backoff.Floor = c.Recovery.Floor
	}
	if c.Recovery.Ceiling > 0 {
		opts.Backoff.Ceiling = c.Recovery.Ceiling
	}
	if c.Recovery.Factor > 0 {
		opts.Backoff.Factor = c.Recovery.Factor
	}
	return opts, nil
}

// Sources returns the recorded displays and the image overlays.
func (c *RecorderConfig) Sources() ([]media.RecordingSource, []media.Overlay, error) {
	displays := c.Capture.Displays
	if len(displays) == 0 {
		displays = []int{0}
	}
	var sources []media.RecordingSource
	for _, d := range displays {
		if d < 0 {
			return nil, nil, fmt.Errorf("bad display index %v", d)
		}
		s := media.NewRecordingSource(media.SourceDisplay, strconv.Itoa(d))
		s.Cursor = c.Mouse.Cursor
		sources = append(sources, s)
	}
	var overlays []media.Overlay
	for _, o := range c.Capture.Overlays {
		anchor := media.AnchorTopLeft
		if o.Anchor != "" {
			a, err := media.ParseAnchor(strings.ToLower(o.Anchor))
			if err != nil {
				return nil, nil, err
			}
			anchor = a
		}
		src := media.NewRecordingSource(media.SourceImage, o.Image)
		overlays = append(overlays, media.NewOverlay(src, image.Pt(o.X, o.Y), media.Size{W: o.W, H: o.H}, anchor))
	}
	return sources, overlays, nil
}
