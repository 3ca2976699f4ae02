package sink

import (
	"testing"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time      { return f.t }
func (f *fakeTime) add(d time.Duration) { f.t = f.t.Add(d) }

func TestClock(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	c := NewClock(ft.now)

	if c.Time() != 0 || c.State() != ClockStopped {
		t.Fatalf("new clock should be stopped at zero")
	}
	c.Start()
	ft.add(10 * time.Millisecond)
	if v := c.Time(); v != 10*media.Millisecond {
		t.Errorf("running clock time %v", v)
	}

	c.Pause()
	ft.add(time.Second)
	if v := c.Time(); v != 10*media.Millisecond {
		t.Errorf("paused clock moved to %v", v)
	}

	c.Resume()
	ft.add(5 * time.Millisecond)
	if v := c.Time(); v != 15*media.Millisecond {
		t.Errorf("clock should continue after resume, got %v", v)
	}

	c.Stop()
	ft.add(time.Second)
	if v := c.Time(); v != 15*media.Millisecond || c.State() != ClockStopped {
		t.Errorf("stopped clock moved to %v", v)
	}

	c.Start()
	if c.Time() != 0 {
		t.Errorf("start should reset the clock")
	}
}
