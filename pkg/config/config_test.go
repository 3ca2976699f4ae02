package config

import (
	"strings"
	"testing"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/spf13/pflag"
)

func TestConfigEnv(t *testing.T) {
	t.Setenv("SREC_RECORDER_FPS", "60")
	t.Setenv("SREC_STORAGE_PROVIDER", "s3")

	var out RecorderConfig
	if err := LoadConfig(&out, ""); err != nil {
		t.Fatal(err)
	}
	if out.Recorder.Fps != 60 {
		t.Errorf("fps %v is not 60", out.Recorder.Fps)
	}
	if !out.Storage.IsEnabled() {
		t.Errorf("storage is not enabled")
	}
	if out.Recorder.MaxFrameLength != 500*time.Millisecond {
		t.Errorf("max frame length %v", out.Recorder.MaxFrameLength)
	}
}

func TestUnknownEnv(t *testing.T) {
	t.Setenv("SREC_RECORDER_FPS", "60")
	t.Setenv("SREC_RECORDER_FSP", "60")
	t.Setenv("SREC_STORAGE_S3ENDPOINT", "localhost:9000")
	t.Setenv("SREC_MONITORING", "1")

	got := UnknownEnv(&RecorderConfig{})
	want := []string{"SREC_MONITORING", "SREC_RECORDER_FSP"}
	for _, k := range got {
		if strings.HasPrefix(k, "SREC_TEST_") {
			continue
		}
		if len(want) == 0 || k != want[0] {
			t.Errorf("unexpected unknown env %v", k)
			continue
		}
		want = want[1:]
	}
	if len(want) > 0 {
		t.Errorf("not found %v in %v", want, got)
	}
}

func TestDefaultConfig(t *testing.T) {
	var conf RecorderConfig
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	opts, err := conf.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Sink.Mode != sink.ModeVideo || opts.Sink.Fps != 30 {
		t.Errorf("bad recorder options %+v", opts.Sink)
	}
	if opts.Sink.Audio != media.DefaultAudioFormat || !opts.Sink.AudioEnabled {
		t.Errorf("bad audio %+v", opts.Sink.Audio)
	}
	if opts.Backoff.Floor != 250*time.Millisecond || opts.Backoff.Ceiling != 5*time.Second {
		t.Errorf("bad backoff %+v", opts.Backoff)
	}
	if opts.SnapshotInterval != 10*time.Second {
		t.Errorf("snapshot interval %v", opts.SnapshotInterval)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		conf    RecorderConfig
		wantErr bool
		check   func(t *testing.T, c RecorderConfig)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c RecorderConfig) {
				opts, _ := c.Options()
				if opts.Sink.Fps != 30 || opts.Sink.FrameFormat != "raw" {
					t.Errorf("no defaults %+v", opts.Sink)
				}
				if opts.MaxFrameLength != 500*time.Millisecond {
					t.Errorf("max frame length %v", opts.MaxFrameLength)
				}
			},
		},
		{
			name: "slideshow",
			conf: RecorderConfig{Recorder: Recorder{Mode: "Slideshow"}, Snapshot: Snapshot{Interval: time.Second}},
			check: func(t *testing.T, c RecorderConfig) {
				opts, _ := c.Options()
				if opts.Sink.Mode != sink.ModeSlideshow {
					t.Errorf("mode %v", opts.Sink.Mode)
				}
				if opts.Interval() != media.FromDuration(time.Second) {
					t.Errorf("interval %v", opts.Interval())
				}
			},
		},
		{
			name: "geometry",
			conf: RecorderConfig{
				Capture: Capture{SourceRect: Rect{X: 10, Y: 20, W: 100, H: 50}},
				Encoder: Encoder{Width: 640, Height: 360, Stretch: "Fill", Anchor: "bottomright"},
			},
			check: func(t *testing.T, c RecorderConfig) {
				opts, _ := c.Options()
				g := opts.Geometry
				if g.SourceRect.Min.X != 10 || g.SourceRect.Max.Y != 70 {
					t.Errorf("source rect %v", g.SourceRect)
				}
				if g.FrameSize != (media.Size{W: 640, H: 360}) || g.Stretch != media.StretchFill || g.Anchor != media.AnchorBottomRight {
					t.Errorf("geometry %+v", g)
				}
			},
		},
		{
			name: "bad audio falls back",
			conf: RecorderConfig{Audio: Audio{Enabled: true, SampleRate: 44100}},
			check: func(t *testing.T, c RecorderConfig) {
				if f := c.AudioFormat(); f != media.DefaultAudioFormat {
					t.Errorf("format %+v", f)
				}
			},
		},
		{name: "bad mode", conf: RecorderConfig{Recorder: Recorder{Mode: "gif"}}, wantErr: true},
		{name: "bad stretch", conf: RecorderConfig{Encoder: Encoder{Stretch: "zoom"}}, wantErr: true},
		{name: "bad anchor", conf: RecorderConfig{Encoder: Encoder{Anchor: "middle"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.conf.Recorder.Mode == "" {
				tt.conf.Recorder.Mode = "video"
			}
			_, err := tt.conf.Options()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Options() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, tt.conf)
			}
		})
	}
}

func TestSources(t *testing.T) {
	conf := RecorderConfig{
		Capture: Capture{
			Displays: []int{0, 1},
			Overlays: []Overlay{{Image: "logo.png", X: 5, Y: 6, Anchor: "topright"}},
		},
		Mouse: Mouse{Cursor: true},
	}
	sources, overlays, err := conf.Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 || sources[1].Path != "1" || sources[0].Type != media.SourceDisplay {
		t.Errorf("bad sources %+v", sources)
	}
	if sources[0].ID == sources[1].ID {
		t.Errorf("same source ids")
	}
	if len(overlays) != 1 || overlays[0].Source.Type != media.SourceImage || overlays[0].Anchor != media.AnchorTopRight {
		t.Errorf("bad overlays %+v", overlays)
	}
	if name := conf.sourceName(); name != "display0+display1" {
		t.Errorf("source name %v", name)
	}

	conf.Capture.Displays = []int{-1}
	if _, _, err := conf.Sources(); err == nil {
		t.Errorf("negative display index is accepted")
	}
}

func TestParseFlags(t *testing.T) {
	conf := RecorderConfig{Recorder: Recorder{Mode: "video", Fps: 30}, Audio: Audio{Enabled: true}}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	args := []string{"--fps", "15", "--audio=false", "-o", "/tmp/rec", "--display", "1,2"}
	if err := conf.ParseFlags(fs, args); err != nil {
		t.Fatal(err)
	}
	if conf.Recorder.Fps != 15 || conf.Audio.Enabled || conf.Output.Path != "/tmp/rec" {
		t.Errorf("flags are not applied: %+v", conf)
	}
	if len(conf.Capture.Displays) != 2 || conf.Capture.Displays[1] != 2 {
		t.Errorf("displays %v", conf.Capture.Displays)
	}
	if conf.Recorder.Mode != "video" {
		t.Errorf("mode is changed to %v", conf.Recorder.Mode)
	}
}

func TestExpandSpecialTags(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	conf := RecorderConfig{Output: Output{Path: "{user}/rec"}, Snapshot: Snapshot{Dir: "/abs"}}
	conf.expandSpecialTags()
	if strings.Contains(conf.Output.Path, "{user}") || !strings.HasSuffix(conf.Output.Path, "rec") {
		t.Errorf("path %v", conf.Output.Path)
	}
	if conf.Snapshot.Dir != "/abs" {
		t.Errorf("dir %v", conf.Snapshot.Dir)
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: nil, want: ""},
		{args: []string{"--fps", "15", "-c", "/etc/srec", "--zip"}, want: "/etc/srec"},
		{args: []string{"--conf=./x", "-o", "out"}, want: "./x"},
		{args: []string{"--audio=false"}, want: ""},
	}
	for _, tt := range tests {
		if got := ConfigPath(tt.args); got != tt.want {
			t.Errorf("ConfigPath(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
