package lock

import (
	"sync"
	"time"
)

// Event is a signal that can be waited on with a timeout.
//
// An auto-reset event is cleared by the waiter that observes it,
// a manual-reset one stays set until Reset is called.
type Event struct {
	mu     sync.Mutex
	ch     chan struct{}
	set    bool
	manual bool
}

// NewEvent returns a new auto-reset event.
func NewEvent() *Event { return &Event{ch: make(chan struct{})} }

// NewManualEvent returns a new manual-reset (level-triggered) event.
func NewManualEvent() *Event { return &Event{ch: make(chan struct{}), manual: true} }

// Set signals the event and wakes up waiters.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		return
	}
	e.set = true
	close(e.ch)
}

// Reset clears the event.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Event) reset() {
	if !e.set {
		return
	}
	e.set = false
	e.ch = make(chan struct{})
}

func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Wait blocks until the event is set or the timeout expires.
// A negative timeout waits forever.
// It returns false on timeout.
func (e *Event) Wait(d time.Duration) bool {
	var timeout <-chan time.Time
	if d >= 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}
	for {
		e.mu.Lock()
		if e.set {
			if !e.manual {
				e.reset()
			}
			e.mu.Unlock()
			return true
		}
		ch := e.ch
		e.mu.Unlock()

		select {
		case <-ch:
		case <-timeout:
			return false
		}
	}
}
