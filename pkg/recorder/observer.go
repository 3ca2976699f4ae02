package recorder

import (
	"sync"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusRecording
	StatusPaused
	StatusFinalizing
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusPaused:
		return "paused"
	case StatusFinalizing:
		return "finalizing"
	}
	return "?"
}

// Result is the outcome of a recording session.
type Result struct {
	// Err is the cause of a failed recording.
	Err error
	// FinalizeErr is set when the output couldn't be finished properly.
	FinalizeErr error
	// Path of the (maybe partial) output.
	Path string
	// FrameDelays of slideshow frames in milliseconds.
	FrameDelays map[string]int64
	Frames      int
}

func (r Result) Failed() bool { return r.Err != nil || r.FinalizeErr != nil }

// Cause returns the error that ended the session.
func (r Result) Cause() error {
	if r.Err != nil {
		return r.Err
	}
	return r.FinalizeErr
}

// Observer receives recorder notifications.
// Calls are made from the recorder goroutine and must not block for long.
type Observer interface {
	OnStatus(s Status)
	OnFrame(number int, ts time.Time)
	OnVolume(level int)
	OnRecoverableError(err error)
	OnSnapshot(path string)
	OnComplete(r Result)
	OnFailed(r Result)
}

// ObserverFuncs is an Observer made of optional functions.
type ObserverFuncs struct {
	Status           func(Status)
	Frame            func(int, time.Time)
	Volume           func(int)
	RecoverableError func(error)
	Snapshot         func(string)
	Complete         func(Result)
	Failed           func(Result)
}

func (o ObserverFuncs) OnStatus(s Status) {
	if o.Status != nil {
		o.Status(s)
	}
}

func (o ObserverFuncs) OnFrame(n int, ts time.Time) {
	if o.Frame != nil {
		o.Frame(n, ts)
	}
}

func (o ObserverFuncs) OnVolume(level int) {
	if o.Volume != nil {
		o.Volume(level)
	}
}

func (o ObserverFuncs) OnRecoverableError(err error) {
	if o.RecoverableError != nil {
		o.RecoverableError(err)
	}
}

func (o ObserverFuncs) OnSnapshot(path string) {
	if o.Snapshot != nil {
		o.Snapshot(path)
	}
}

func (o ObserverFuncs) OnComplete(r Result) {
	if o.Complete != nil {
		o.Complete(r)
	}
}

func (o ObserverFuncs) OnFailed(r Result) {
	if o.Failed != nil {
		o.Failed(r)
	}
}

// observers is a list of observers that can be changed at any time.
type observers struct {
	mu   sync.RWMutex
	list []Observer
}

func (o *observers) add(obs Observer) {
	if obs == nil {
		return
	}
	o.mu.Lock()
	o.list = append(o.list, obs)
	o.mu.Unlock()
}

func (o *observers) each(fn func(Observer)) {
	o.mu.RLock()
	list := o.list
	o.mu.RUnlock()
	for _, obs := range list {
		fn(obs)
	}
}

func (o *observers) OnStatus(s Status)            { o.each(func(x Observer) { x.OnStatus(s) }) }
func (o *observers) OnFrame(n int, ts time.Time)  { o.each(func(x Observer) { x.OnFrame(n, ts) }) }
func (o *observers) OnVolume(level int)           { o.each(func(x Observer) { x.OnVolume(level) }) }
func (o *observers) OnRecoverableError(err error) { o.each(func(x Observer) { x.OnRecoverableError(err) }) }
func (o *observers) OnSnapshot(path string)       { o.each(func(x Observer) { x.OnSnapshot(path) }) }
func (o *observers) OnComplete(r Result)          { o.each(func(x Observer) { x.OnComplete(r) }) }
func (o *observers) OnFailed(r Result)            { o.each(func(x Observer) { x.OnFailed(r) }) }
