package recorder

import (
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
	"github.com/giongto35/screen-recorder/pkg/sink"
	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Sink sink.Options

	// FixedFramerate renders every frame interval even without changes.
	FixedFramerate bool
	// MaxFrameLength is how long an unchanged frame may be held
	// while waiting for new content.
	MaxFrameLength time.Duration

	Geometry  render.Geometry
	Cursor    bool
	Timestamp bool

	// Snapshots are PNG images of the recorded frames saved into
	// SnapshotDir every SnapshotInterval. In the slideshow mode the
	// interval is the duration of one slide.
	SnapshotDir        string
	SnapshotInterval   time.Duration
	SnapshotsWithVideo bool

	Backoff BackoffConfig

	// Registerer of the recorder metrics, nil disables them.
	Registerer prometheus.Registerer
}

func DefaultOptions() Options {
	return Options{
		Sink: sink.Options{
			Mode:         sink.ModeVideo,
			Fps:          30,
			Audio:        media.DefaultAudioFormat,
			AudioEnabled: true,
			FrameFormat:  "raw",
		},
		MaxFrameLength:   500 * time.Millisecond,
		Geometry:         render.Geometry{Stretch: media.StretchUniform},
		Cursor:           true,
		SnapshotInterval: 10 * time.Second,
		Backoff:          DefaultBackoff,
	}
}

// Interval is the time between two delivered frames.
func (o Options) Interval() media.Ticks {
	if o.Sink.Mode == sink.ModeSlideshow && o.SnapshotInterval > 0 {
		return media.FromDuration(o.SnapshotInterval)
	}
	return media.FrameInterval(o.Sink.Fps)
}

// AcquireTimeout is the frame wait time, it's shorter when
// there's a reason to render soon.
func (o Options) AcquireTimeout(premature bool) time.Duration {
	if premature || o.FixedFramerate {
		return max(media.FrameInterval(o.Sink.Fps).Duration()/2, time.Millisecond)
	}
	return o.MaxFrameLength
}

func (o Options) snapshotsEnabled() bool {
	return o.Sink.Mode == sink.ModeVideo && o.SnapshotsWithVideo && o.SnapshotInterval > 0 && o.SnapshotDir != ""
}
