package media

import (
	"fmt"
	"time"
)

// Ticks is a media time value in 100-nanosecond units.
type Ticks int64

const (
	Millisecond Ticks = 10_000
	Second            = 1000 * Millisecond
)

func FromDuration(d time.Duration) Ticks { return Ticks(d / 100) }
func FromMillis(ms int64) Ticks          { return Ticks(ms) * Millisecond }

func (t Ticks) Duration() time.Duration { return time.Duration(t) * 100 }
func (t Ticks) Millis() int64           { return int64(t / Millisecond) }
func (t Ticks) Seconds() float64        { return float64(t) / float64(Second) }
func (t Ticks) String() string          { return fmt.Sprintf("%.2fms", float64(t)/float64(Millisecond)) }

// FrameInterval returns the duration of one frame at the given rate.
func FrameInterval(fps int) Ticks {
	if fps <= 0 {
		return 0
	}
	return Second / Ticks(fps)
}
