package recorder

import (
	"github.com/giongto35/screen-recorder/pkg/media"
)

// Decision is what the loop does with the current tick.
type Decision int

const (
	// Deliver renders a record now.
	Deliver Decision = iota
	// Hold waits for the rest of the frame interval, the frame may be cached.
	Hold
	// SkipDelay renders a record now ignoring the frame interval.
	SkipDelay
	// Retry waits a bit for the first content to arrive.
	Retry
)

func (d Decision) String() string {
	switch d {
	case Deliver:
		return "deliver"
	case Hold:
		return "hold"
	case SkipDelay:
		return "skip-delay"
	case Retry:
		return "retry"
	}
	return "?"
}

type AcquireStatus int

const (
	AcquireOK AcquireStatus = iota
	AcquireTimeout
)

type SleepMode int

const (
	SleepNone SleepMode = iota
	// SleepCoarse is a 1ms sleep.
	SleepCoarse
	SleepYield
)

// MinDelay is the shortest wait worth sleeping for.
const MinDelay media.Ticks = 5000

type PaceInput struct {
	Elapsed        media.Ticks
	Interval       media.Ticks
	MaxFrameLength media.Ticks
	Acquire        AcquireStatus

	FirstFrame          bool
	HaveFrame           bool
	HavePremature       bool
	SourceChanged       bool
	PointerShapeChanged bool
	SnapshotDue         bool
	FixedFramerate      bool
	Slideshow           bool
}

type Pacing struct {
	Decision  Decision
	Remaining media.Ticks
	// Cache tells to keep the held frame as the premature one.
	Cache bool
	Sleep SleepMode
}

// Pace decides if a frame should be rendered at this moment.
func Pace(in PaceInput) Pacing {
	if !in.HaveFrame && in.Elapsed < max(in.Interval, in.MaxFrameLength) {
		return Pacing{Decision: Retry, Sleep: SleepCoarse}
	}
	if in.FirstFrame || in.Elapsed >= in.Interval {
		return Pacing{Decision: Deliver}
	}
	if in.SourceChanged && !in.FixedFramerate && (in.PointerShapeChanged || in.SnapshotDue) {
		return Pacing{Decision: SkipDelay}
	}

	p := Pacing{Decision: Deliver}
	switch {
	case in.Acquire == AcquireOK:
		p.Remaining = in.Interval - in.Elapsed
		p.Cache = in.SourceChanged
	case in.FixedFramerate || in.Slideshow || in.HavePremature:
		p.Remaining = in.Interval - in.Elapsed
	default:
		p.Remaining = in.MaxFrameLength - in.Elapsed
	}
	p.Remaining = max(p.Remaining, 0)

	if p.Remaining <= MinDelay {
		p.Cache = false
		return p
	}
	p.Decision = Hold
	if p.Remaining > media.Millisecond {
		p.Sleep = SleepCoarse
	} else {
		p.Sleep = SleepYield
	}
	return p
}
