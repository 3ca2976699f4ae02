package capture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/giongto35/screen-recorder/pkg/render"
)

func TestClassify(t *testing.T) {
	removed := render.NewSoftwareDevice()
	removed.Remove(ErrDeviceReset)

	tests := []struct {
		name        string
		stage       Stage
		err         error
		dev         render.Device
		recoverable bool
		deviceLost  bool
	}{
		{name: "access lost", stage: StageSystemTransition, err: ErrAccessLost, recoverable: true},
		{name: "wrapped access lost", stage: StageFrameInfo, err: fmt.Errorf("acquire: %w", ErrAccessLost), recoverable: true},
		{name: "device reset", stage: StageFrameInfo, err: ErrDeviceReset, recoverable: true, deviceLost: true},
		{name: "out of memory", stage: StageCreate, err: ErrOutOfMemory, recoverable: true, deviceLost: true},
		{name: "removed device wins", stage: StageEnumOutputs, err: ErrOutputNotFound, dev: removed, deviceLost: true},
		{name: "reason of removed device", stage: StageFrameInfo, err: errors.New("whatever"), dev: removed, recoverable: true, deviceLost: true},
		{name: "unsupported at create", stage: StageCreate, err: ErrUnsupported, recoverable: true},
		{name: "unsupported at frame", stage: StageFrameInfo, err: ErrUnsupported},
		{name: "unknown", stage: StageSystemTransition, err: errors.New("boom")},
		{name: "healthy device", stage: StageCreate, err: ErrAccessDenied, dev: render.NewSoftwareDevice(), recoverable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(tt.stage, tt.err, tt.dev)
			if e.Recoverable != tt.recoverable {
				t.Errorf("recoverable = %v, want %v", e.Recoverable, tt.recoverable)
			}
			if e.DeviceLost != tt.deviceLost {
				t.Errorf("device lost = %v, want %v", e.DeviceLost, tt.deviceLost)
			}
			if !errors.Is(e, tt.err) {
				t.Errorf("classified error should wrap the original one")
			}
		})
	}

	if Classify(StageCreate, nil, nil) != nil {
		t.Errorf("nil error should stay nil")
	}
	pre := &Error{Err: errors.New("x"), Recoverable: true}
	if Classify(StageCreate, fmt.Errorf("w: %w", pre), nil) != pre {
		t.Errorf("already classified error should be kept")
	}
}

func TestFailure(t *testing.T) {
	f := NewFailure()
	if f.Signaled() || f.Err() != nil {
		t.Fatalf("new failure is signaled")
	}
	first := errors.New("first")
	f.Report(first)
	f.Report(errors.New("second"))
	if !f.Signaled() || f.Err() != first {
		t.Errorf("first error should be kept, got %v", f.Err())
	}
	if !f.Signaled() {
		t.Errorf("failure should stay signaled until reset")
	}
	f.Reset()
	if f.Signaled() || f.Err() != nil {
		t.Errorf("reset failure is still signaled")
	}
}
