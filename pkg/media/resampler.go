package media

// Resample stretches interleaved samples to the given number of frames.
// Each output frame takes the nearest preceding input frame.
func Resample(pcm Samples, frames, channels int) Samples {
	if channels <= 0 || frames <= 0 {
		return nil
	}
	out := make(Samples, frames*channels)
	in := len(pcm) / channels
	if in == 0 {
		return out
	}
	for i := 0; i < frames; i++ {
		src := i * in / frames
		copy(out[i*channels:(i+1)*channels], pcm[src*channels:(src+1)*channels])
	}
	return out
}
