package recorder

import (
	"testing"

	"github.com/giongto35/screen-recorder/pkg/media"
)

const (
	interval30 media.Ticks = 333_333
	maxLen     media.Ticks = 5_000_000
)

func TestPace(t *testing.T) {
	tests := []struct {
		name string
		in   PaceInput
		want Pacing
	}{
		{
			name: "no content yet",
			in:   PaceInput{Elapsed: 100_000, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout, FirstFrame: true},
			want: Pacing{Decision: Retry, Sleep: SleepCoarse},
		},
		{
			name: "blank first frame after the wait",
			in:   PaceInput{Elapsed: maxLen, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout, FirstFrame: true},
			want: Pacing{Decision: Deliver},
		},
		{
			name: "first frame",
			in:   PaceInput{Elapsed: 10, Interval: interval30, MaxFrameLength: maxLen, FirstFrame: true, HaveFrame: true, SourceChanged: true},
			want: Pacing{Decision: Deliver},
		},
		{
			name: "interval elapsed",
			in:   PaceInput{Elapsed: interval30, Interval: interval30, MaxFrameLength: maxLen, HaveFrame: true},
			want: Pacing{Decision: Deliver},
		},
		{
			name: "premature changed frame",
			in:   PaceInput{Elapsed: 10_000, Interval: 33_333, MaxFrameLength: maxLen, HaveFrame: true, SourceChanged: true},
			want: Pacing{Decision: Hold, Remaining: 23_333, Cache: true, Sleep: SleepCoarse},
		},
		{
			name: "premature unchanged frame",
			in:   PaceInput{Elapsed: 10_000, Interval: 33_333, MaxFrameLength: maxLen, HaveFrame: true},
			want: Pacing{Decision: Hold, Remaining: 23_333, Sleep: SleepCoarse},
		},
		{
			name: "pointer shape change",
			in: PaceInput{Elapsed: 10_000, Interval: interval30, MaxFrameLength: maxLen, HaveFrame: true,
				SourceChanged: true, PointerShapeChanged: true},
			want: Pacing{Decision: SkipDelay},
		},
		{
			name: "snapshot is due",
			in: PaceInput{Elapsed: 10_000, Interval: interval30, MaxFrameLength: maxLen, HaveFrame: true,
				SourceChanged: true, SnapshotDue: true},
			want: Pacing{Decision: SkipDelay},
		},
		{
			name: "no skip with fixed framerate",
			in: PaceInput{Elapsed: 10_000, Interval: 33_333, MaxFrameLength: maxLen, HaveFrame: true,
				SourceChanged: true, PointerShapeChanged: true, FixedFramerate: true},
			want: Pacing{Decision: Hold, Remaining: 23_333, Cache: true, Sleep: SleepCoarse},
		},
		{
			name: "no skip without changes",
			in: PaceInput{Elapsed: 10_000, Interval: 33_333, MaxFrameLength: maxLen, HaveFrame: true,
				Acquire: AcquireTimeout, PointerShapeChanged: true, HavePremature: true},
			want: Pacing{Decision: Hold, Remaining: 23_333, Sleep: SleepCoarse},
		},
		{
			name: "timeout waits for max frame length",
			in:   PaceInput{Elapsed: 10_000, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout, HaveFrame: true},
			want: Pacing{Decision: Hold, Remaining: maxLen - 10_000, Sleep: SleepCoarse},
		},
		{
			name: "timeout in slideshow",
			in: PaceInput{Elapsed: 10_000, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout,
				HaveFrame: true, Slideshow: true},
			want: Pacing{Decision: Hold, Remaining: interval30 - 10_000, Sleep: SleepCoarse},
		},
		{
			name: "timeout with premature frame and fixed framerate",
			in: PaceInput{Elapsed: 200_000, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout,
				HaveFrame: true, HavePremature: true, FixedFramerate: true},
			want: Pacing{Decision: Hold, Remaining: interval30 - 200_000, Sleep: SleepCoarse},
		},
		{
			name: "timeout with premature frame and fixed framerate on time",
			in: PaceInput{Elapsed: interval30 + 1, Interval: interval30, MaxFrameLength: maxLen, Acquire: AcquireTimeout,
				HaveFrame: true, HavePremature: true, FixedFramerate: true},
			want: Pacing{Decision: Deliver},
		},
		{
			name: "short wait is a yield",
			in:   PaceInput{Elapsed: interval30 - 8000, Interval: interval30, MaxFrameLength: maxLen, HaveFrame: true},
			want: Pacing{Decision: Hold, Remaining: 8000, Sleep: SleepYield},
		},
		{
			name: "too short to wait",
			in:   PaceInput{Elapsed: interval30 - MinDelay, Interval: interval30, MaxFrameLength: maxLen, HaveFrame: true, SourceChanged: true},
			want: Pacing{Decision: Deliver, Remaining: MinDelay},
		},
		{
			name: "remaining is never negative",
			in:   PaceInput{Elapsed: 300_000, Interval: interval30, MaxFrameLength: 100_000, Acquire: AcquireTimeout, HaveFrame: true},
			want: Pacing{Decision: Deliver},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pace(tt.in); got != tt.want {
				t.Errorf("Pace() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPaceIntervalRule(t *testing.T) {
	for _, acq := range []AcquireStatus{AcquireOK, AcquireTimeout} {
		for _, premature := range []bool{false, true} {
			for _, fixed := range []bool{false, true} {
				for elapsed := media.Ticks(0); elapsed < 2*interval30; elapsed += 1111 {
					in := PaceInput{
						Elapsed:        elapsed,
						Interval:       interval30,
						MaxFrameLength: maxLen,
						Acquire:        acq,
						HaveFrame:      true,
						HavePremature:  premature,
						SourceChanged:  acq == AcquireOK,
						FixedFramerate: fixed,
					}
					p := Pace(in)
					switch {
					case elapsed >= interval30 && p.Decision != Deliver:
						t.Fatalf("%+v: got %v after the interval", in, p.Decision)
					case elapsed < interval30-MinDelay && p.Decision == Deliver:
						t.Fatalf("%+v: early delivery", in)
					case p.Remaining < 0:
						t.Fatalf("%+v: negative remaining time", in)
					}
				}
			}
		}
	}
}
