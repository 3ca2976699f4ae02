// Package audio keeps captured sound in step with the video frames.
package audio

import "github.com/giongto35/screen-recorder/pkg/media"

// Chunk is audio cut for one video frame.
type Chunk struct {
	Data []byte
	// Padded is set when Data is synthesized silence.
	Padded bool
	// Drift is the difference between the audio length and the requested
	// video duration, it is zero for a chunk without audio.
	Drift media.Ticks
}

// Bridge slices buffered audio into pieces matching video frame durations.
// It is used from the recorder goroutine only.
type Bridge struct {
	buf     *RollingBuffer
	format  media.AudioFormat
	enabled bool

	lastFrameHadAudio bool
	totalDrift        media.Ticks
}

func NewBridge(buf *RollingBuffer, format media.AudioFormat, enabled bool) *Bridge {
	return &Bridge{buf: buf, format: format, enabled: enabled}
}

// Grab takes the audio for a video frame of the given duration.
// It never blocks, short audio is returned as is.
// An empty chunk is filled with silence unless the previous chunk
// carried real audio, so a silent stretch is covered as a whole.
func (b *Bridge) Grab(d media.Ticks) Chunk {
	if d <= 0 || !b.enabled {
		return Chunk{}
	}
	c := Chunk{Data: b.buf.Take(b.format.BytesFor(d), b.format.FrameBytes())}
	taken := len(c.Data) > 0
	if !taken && !b.lastFrameHadAudio {
		c.Data = make([]byte, b.format.BytesFor(d))
		c.Padded = true
	}
	b.lastFrameHadAudio = taken
	if len(c.Data) > 0 {
		c.Drift = b.format.DurationOf(len(c.Data)) - d
		b.totalDrift += c.Drift
	}
	return c
}

// Clear drops buffered audio, e.g. the sound captured during a pause.
func (b *Bridge) Clear() { b.buf.Clear() }

func (b *Bridge) Buffered() int             { return b.buf.Len() }
func (b *Bridge) TotalDrift() media.Ticks   { return b.totalDrift }
func (b *Bridge) Format() media.AudioFormat { return b.format }
func (b *Bridge) Enabled() bool             { return b.enabled }

// LastFrameHadAudio reports whether the last chunk took real audio.
func (b *Bridge) LastFrameHadAudio() bool { return b.lastFrameHadAudio }
