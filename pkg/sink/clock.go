package sink

import (
	"sync"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
)

type ClockState int

const (
	ClockStopped ClockState = iota
	ClockRunning
	ClockPaused
)

// Clock is the presentation clock of a recording.
// It stands still while paused and continues from the same position.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	state   ClockState
	started time.Time
	elapsed time.Duration
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Start runs the clock from zero.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, c.started, c.elapsed = ClockRunning, c.now(), 0
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ClockRunning {
		return
	}
	c.elapsed += c.now().Sub(c.started)
	c.state = ClockPaused
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ClockPaused {
		return
	}
	c.started = c.now()
	c.state = ClockRunning
}

// Stop freezes the clock at its current position.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ClockRunning {
		c.elapsed += c.now().Sub(c.started)
	}
	c.state = ClockStopped
}

// Time returns the media time position.
func (c *Clock) Time() media.Ticks {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.elapsed
	if c.state == ClockRunning {
		d += c.now().Sub(c.started)
	}
	return media.FromDuration(d)
}

func (c *Clock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
