package recorder

import "time"

type BackoffConfig struct {
	Floor   time.Duration
	Ceiling time.Duration
	Factor  float64
}

var DefaultBackoff = BackoffConfig{Floor: 250 * time.Millisecond, Ceiling: 5 * time.Second, Factor: 2}

// Backoff is a growing wait between restarts of a failed capture.
type Backoff struct {
	conf  BackoffConfig
	t     time.Duration
	sleep func(time.Duration)
}

func NewBackoff(conf BackoffConfig) *Backoff {
	if conf.Floor <= 0 {
		conf.Floor = DefaultBackoff.Floor
	}
	if conf.Ceiling < conf.Floor {
		conf.Ceiling = conf.Floor
	}
	if conf.Factor < 1 {
		conf.Factor = 1
	}
	return &Backoff{conf: conf, t: conf.Floor, sleep: time.Sleep}
}

// Wait sleeps for the current interval and makes the next one longer.
func (b *Backoff) Wait() {
	b.sleep(b.t)
	b.t = min(time.Duration(float64(b.t)*b.conf.Factor), b.conf.Ceiling)
}

func (b *Backoff) Reset()                 { b.t = b.conf.Floor }
func (b *Backoff) Current() time.Duration { return b.t }
