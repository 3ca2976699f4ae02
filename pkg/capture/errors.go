package capture

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/lock"
	"github.com/giongto35/screen-recorder/pkg/render"
)

var (
	ErrDeviceRemoved       = errors.New("capture: device removed")
	ErrDeviceReset         = errors.New("capture: device reset")
	ErrOutOfMemory         = errors.New("capture: out of video memory")
	ErrAccessLost          = errors.New("capture: access lost")
	ErrAccessDenied        = errors.New("capture: access denied")
	ErrSessionDisconnected = errors.New("capture: session disconnected")
	ErrUnsupported         = errors.New("capture: unsupported")
	ErrWaitAbandoned       = errors.New("capture: wait abandoned")
	ErrOutputNotFound      = errors.New("capture: output not found")
)

// Stage is the step of the capture where an error came from,
// each of them expects its own set of transient failures.
type Stage int

const (
	StageSystemTransition Stage = iota
	StageCreate
	StageFrameInfo
	StageEnumOutputs
)

var expected = map[Stage][]error{
	StageSystemTransition: {ErrDeviceRemoved, ErrAccessLost, ErrWaitAbandoned},
	StageCreate:           {ErrDeviceRemoved, ErrAccessDenied, ErrUnsupported, ErrSessionDisconnected},
	StageFrameInfo:        {ErrDeviceRemoved, ErrAccessLost},
	StageEnumOutputs:      {ErrOutputNotFound},
}

// Error is a classified capture failure.
type Error struct {
	Stage Stage
	Err   error
	// Recoverable failures are retried after the capture restart.
	Recoverable bool
	// DeviceLost means the render device has to be recreated as well.
	DeviceLost bool
}

func (e *Error) Error() string {
	kind := "fatal"
	if e.Recoverable {
		kind = "recoverable"
	}
	return fmt.Sprintf("%v capture error: %v", kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify decides if the error is worth a capture restart.
// When the device is gone, the reason it reports takes precedence
// over the error itself.
func Classify(stage Stage, err error, dev render.Device) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	out := &Error{Stage: stage, Err: err}
	cause := err
	if dev != nil {
		if reason := dev.RemovedReason(); reason != nil {
			out.DeviceLost = true
			cause = reason
		}
	}
	if isAny(cause, ErrDeviceRemoved, ErrDeviceReset, ErrOutOfMemory) {
		out.DeviceLost = true
		cause = ErrDeviceRemoved
	}
	out.Recoverable = slices.ContainsFunc(expected[stage], func(e error) bool { return errors.Is(cause, e) })
	return out
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// Failure is a level-triggered error signal from a capture goroutine.
// The first reported error is kept until Reset.
type Failure struct {
	mu  sync.Mutex
	err error
	ev  *lock.Event
}

func NewFailure() *Failure { return &Failure{ev: lock.NewManualEvent()} }

func (f *Failure) Report(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
	f.ev.Set()
}

func (f *Failure) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Failure) Signaled() bool { return f.ev.IsSet() }

func (f *Failure) Reset() {
	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()
	f.ev.Reset()
}
