package media

// Buffer is a simple non-thread safe ring buffer for audio samples.
// It cuts 16bit interleaved PCM into chunks of the same length.
type (
	Buffer struct {
		s  Samples
		wi int
	}
	OnFull  func(s Samples)
	Samples []int16
)

func NewBuffer(numSamples int) Buffer { return Buffer{s: make(Samples, numSamples)} }

// Len is the number of samples waiting for a full chunk.
func (b *Buffer) Len() int { return b.wi }

// Write fills the buffer calling onFull every time the buffer fills out.
// The callback gets the internal slice, it is overwritten after the call.
func (b *Buffer) Write(s Samples, onFull OnFull) (r int) {
	for r < len(s) {
		w := copy(b.s[b.wi:], s[r:])
		r += w
		b.wi += w
		if b.wi == len(b.s) {
			b.wi = 0
			if onFull != nil {
				onFull(b.s)
			}
		}
	}
	return
}
