package lock

import (
	"sync"
	"testing"
	"time"
)

func TestEvent(t *testing.T) {
	ev := NewEvent()
	wait := time.Millisecond * 10

	if ev.Wait(wait) {
		t.Fatalf("unset event should time out")
	}

	ev.Set()
	ev.Set()
	if !ev.Wait(wait) {
		t.Fatalf("set event should not block")
	}
	if ev.IsSet() {
		t.Errorf("auto-reset event is still set after a wait")
	}

	go func() {
		time.Sleep(time.Millisecond * 5)
		ev.Set()
	}()
	if !ev.Wait(time.Second * 30) {
		t.Errorf("event wasn't delivered")
	}
}

func TestManualEvent(t *testing.T) {
	ev := NewManualEvent()
	ev.Set()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			if !ev.Wait(time.Second) {
				t.Errorf("manual event should release every waiter")
			}
		}()
	}
	wg.Wait()

	if !ev.IsSet() {
		t.Errorf("manual event has been cleared by a waiter")
	}
	ev.Reset()
	if ev.Wait(time.Millisecond) {
		t.Errorf("reset event should time out")
	}
}
