package thread

import (
	"runtime"
	"testing"
	"time"
)

func TestGo(t *testing.T) {
	value := 0
	done := Go(func() {
		runtime.Gosched()
		value = 1
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	if value != 1 {
		t.Errorf("wrong value %v", value)
	}
}

func TestMainMaybe(t *testing.T) {
	if isMacOs {
		t.Skip("needs the main thread loop")
	}
	value := 0
	MainWrapMaybe(func() { MainMaybe(func() { value = 1 }) })
	if value != 1 {
		t.Errorf("wrong value %v", value)
	}
}
