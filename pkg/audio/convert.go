package audio

import (
	"encoding/binary"
	"io"

	"github.com/giongto35/screen-recorder/pkg/media"
)

// chunksPerSecond of the resampling, 10ms each.
const chunksPerSecond = 100

// Converter writes 16-bit device samples as PCM of the recording format.
// Samples of a device with another rate are resampled in 10ms chunks.
type Converter struct {
	w        io.Writer
	channels int
	resample bool
	frames   int
	buf      media.Buffer
	out      []byte
	err      error
}

func NewConverter(deviceRate int, format media.AudioFormat, w io.Writer) *Converter {
	c := &Converter{w: w, channels: format.Channels}
	in := deviceRate / chunksPerSecond * format.Channels
	c.frames = format.SampleRate / chunksPerSecond
	c.resample = deviceRate != format.SampleRate && in > 0 && c.frames > 0
	if c.resample {
		c.buf = media.NewBuffer(in)
	}
	return c
}

// Write takes interleaved samples, it's not thread safe.
func (c *Converter) Write(in []int16) error {
	if !c.resample {
		return c.write(in)
	}
	c.err = nil
	c.buf.Write(in, func(s media.Samples) {
		if err := c.write(media.Resample(s, c.frames, c.channels)); err != nil {
			c.err = err
		}
	})
	return c.err
}

func (c *Converter) write(pcm []int16) error {
	if cap(c.out) < len(pcm)*2 {
		c.out = make([]byte, len(pcm)*2)
	}
	b := c.out[:len(pcm)*2]
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	_, err := c.w.Write(b)
	return err
}
