package media

import (
	"image"
	"testing"
	"time"
)

func TestTicks(t *testing.T) {
	if v := FromDuration(time.Millisecond); v != Millisecond {
		t.Errorf("1ms = %v ticks, want %v", int64(v), int64(Millisecond))
	}
	if v := FrameInterval(30); v != 333_333 {
		t.Errorf("30fps interval = %v, want 333333", int64(v))
	}
	if v := FrameInterval(0); v != 0 {
		t.Errorf("zero fps interval = %v", int64(v))
	}
	if d := (15 * Millisecond).Duration(); d != 15*time.Millisecond {
		t.Errorf("wrong duration %v", d)
	}
}

func TestAudioFormat(t *testing.T) {
	f := AudioFormat{SampleRate: 44100, Channels: 2, BitsPerSample: 16}
	tests := []struct {
		name   string
		d      Ticks
		frames int
	}{
		{name: "zero", d: 0, frames: 0},
		{name: "one second", d: Second, frames: 44100},
		{name: "ceil", d: 333_333, frames: 1470},
		{name: "tiny", d: 1, frames: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FramesFor(tt.d); got != tt.frames {
				t.Errorf("FramesFor(%v) = %v, want %v", int64(tt.d), got, tt.frames)
			}
			if got := f.BytesFor(tt.d); got != tt.frames*4 {
				t.Errorf("BytesFor(%v) = %v, want %v", int64(tt.d), got, tt.frames*4)
			}
		})
	}
	if d := f.DurationOf(44100 * 4); d != Second {
		t.Errorf("DurationOf one second = %v", int64(d))
	}
}

func TestMakeEven(t *testing.T) {
	r := MakeEven(image.Rect(0, 0, 1921, 1081))
	if r.Dx() != 1920 || r.Dy() != 1080 {
		t.Errorf("got %v", r)
	}
	if s := (Size{W: 3, H: 4}).Even(); s.W != 2 || s.H != 4 {
		t.Errorf("got %v", s)
	}
}

func TestAnchorPlace(t *testing.T) {
	content, frame := Size{W: 100, H: 50}, Size{W: 200, H: 100}
	tests := []struct {
		a    Anchor
		want image.Point
	}{
		{AnchorCenter, image.Pt(50, 25)},
		{AnchorTopLeft, image.Pt(0, 0)},
		{AnchorBottomRight, image.Pt(100, 50)},
		{AnchorTop, image.Pt(50, 0)},
		{AnchorLeft, image.Pt(0, 25)},
	}
	for _, tt := range tests {
		if got := tt.a.Place(content, frame); got != tt.want {
			t.Errorf("anchor %v: got %v, want %v", tt.a, got, tt.want)
		}
	}
}

func TestPointerUpdate(t *testing.T) {
	p := PointerInfo{}
	shape := image.NewRGBA(image.Rect(0, 0, 4, 4))
	p.Update(PointerInfo{Position: image.Pt(1, 1), Visible: true, Shape: shape, Hotspot: image.Pt(2, 2)})
	if !p.ShapeUpdated || p.Shape != shape {
		t.Fatalf("shape wasn't applied")
	}
	p.ShapeUpdated = false
	p.Update(PointerInfo{Position: image.Pt(5, 5), Visible: true})
	if p.ShapeUpdated || p.Shape != shape || p.Position != image.Pt(5, 5) {
		t.Errorf("position-only update broke the shape: %+v", p)
	}
}

func TestBuffer(t *testing.T) {
	tests := []struct {
		name   string
		bufLen int
		writes [][]int16
		chunks int
		left   int
	}{
		{name: "underflow", bufLen: 4, writes: [][]int16{{1, 2}}, left: 2},
		{name: "exact", bufLen: 4, writes: [][]int16{{1, 2}, {3, 4}}, chunks: 1},
		{name: "overflow", bufLen: 4, writes: [][]int16{{1, 2, 3, 4, 5, 6, 7, 8, 9}}, chunks: 2, left: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(tt.bufLen)
			var chunks []Samples
			for _, w := range tt.writes {
				buf.Write(w, func(s Samples) { chunks = append(chunks, append(Samples(nil), s...)) })
			}
			if len(chunks) != tt.chunks || buf.Len() != tt.left {
				t.Errorf("chunks %v, left %v", chunks, buf.Len())
			}
			for i, c := range chunks {
				if c[0] != int16(i*tt.bufLen+1) {
					t.Errorf("chunk %v is %v", i, c)
				}
			}
		})
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name     string
		pcm      Samples
		frames   int
		channels int
		want     Samples
	}{
		{name: "same", pcm: Samples{1, 2, 3}, frames: 3, channels: 1, want: Samples{1, 2, 3}},
		{name: "up mono", pcm: Samples{1, 2}, frames: 4, channels: 1, want: Samples{1, 1, 2, 2}},
		{name: "down stereo", pcm: Samples{1, -1, 2, -2, 3, -3, 4, -4}, frames: 2, channels: 2, want: Samples{1, -1, 3, -3}},
		{name: "up stereo", pcm: Samples{1, -1, 2, -2}, frames: 3, channels: 2, want: Samples{1, -1, 1, -1, 2, -2}},
		{name: "empty", pcm: nil, frames: 2, channels: 2, want: Samples{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.pcm, tt.frames, tt.channels)
			if len(got) != len(tt.want) {
				t.Fatalf("Resample() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Resample() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
