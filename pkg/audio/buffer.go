package audio

import "sync"

// RollingBuffer is a FIFO of PCM bytes filled by an audio source
// and drained by the recorder.
type RollingBuffer struct {
	mu   sync.Mutex
	data []byte
	// limit caps the buffered bytes, the oldest data is dropped first.
	limit int
}

func NewRollingBuffer(limit int) *RollingBuffer { return &RollingBuffer{limit: limit} }

func (b *RollingBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if b.limit > 0 && len(b.data) > b.limit {
		b.data = b.data[len(b.data)-b.limit:]
	}
	return len(p), nil
}

// Take removes and returns at most n bytes from the front,
// the amount is rounded down to whole multiples of align.
func (b *RollingBuffer) Take(n, align int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	n = min(n, len(b.data))
	if align > 1 {
		n -= n % align
	}
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, b.data[:n])
	b.data = b.data[n:]
	return out
}

func (b *RollingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func (b *RollingBuffer) Clear() {
	b.mu.Lock()
	b.data = nil
	b.mu.Unlock()
}
