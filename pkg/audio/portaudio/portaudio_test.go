package portaudio

import (
	"runtime"
	"testing"
	"time"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
)

func TestMicrophone(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("needs the main thread loop")
	}
	mic := NewMicrophone(media.DefaultAudioFormat, logger.Nop())
	buf := audio.NewRollingBuffer(0)
	if err := mic.Start(buf); err != nil {
		t.Skipf("no input device: %v", err)
	}
	if err := mic.Start(buf); err == nil {
		t.Errorf("second start is accepted")
	}
	deadline := time.Now().Add(3 * time.Second)
	for buf.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := mic.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if buf.Len() == 0 {
		t.Errorf("no samples")
	}
	if buf.Len()%mic.Format().FrameBytes() != 0 {
		t.Errorf("partial sample frames: %v", buf.Len())
	}
	if err := mic.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
