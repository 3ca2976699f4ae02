package media

// AudioFormat describes interleaved PCM data.
type AudioFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

var DefaultAudioFormat = AudioFormat{SampleRate: 48000, Channels: 2, BitsPerSample: 16}

func (f AudioFormat) Valid() bool { return f.SampleRate > 0 && f.Channels > 0 && f.BitsPerSample > 0 }

// FrameBytes is the size of one sample for all channels.
func (f AudioFormat) FrameBytes() int { return f.BitsPerSample / 8 * f.Channels }

// FramesFor returns ceil(rate * seconds) for the duration.
func (f AudioFormat) FramesFor(d Ticks) int {
	if d <= 0 || f.SampleRate <= 0 {
		return 0
	}
	return int((int64(f.SampleRate)*int64(d) + int64(Second) - 1) / int64(Second))
}

func (f AudioFormat) BytesFor(d Ticks) int { return f.FramesFor(d) * f.FrameBytes() }

// DurationOf returns the play time of n bytes, truncated to whole ticks.
func (f AudioFormat) DurationOf(n int) Ticks {
	fb := f.FrameBytes()
	if fb == 0 || f.SampleRate <= 0 {
		return 0
	}
	frames := int64(n / fb)
	return Ticks(frames * int64(Second) / int64(f.SampleRate))
}
