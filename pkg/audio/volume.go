package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// VolumeMeter tracks the loudness of 16-bit PCM audio.
// The level rises immediately and decays slowly.
type VolumeMeter struct {
	window int
	level  atomic.Int64
}

func NewVolumeMeter(sampleRate int) *VolumeMeter {
	return &VolumeMeter{window: max(sampleRate/400, 1)}
}

// Measure updates the level with a block of little-endian samples.
func (m *VolumeMeter) Measure(pcm []byte) int {
	level := int(m.level.Load())
	var magnitude, points int
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if s == math.MinInt16 {
			magnitude += math.MaxInt16
		} else if s < 0 {
			magnitude -= int(s)
		} else {
			magnitude += int(s)
		}
		points++
		if points == m.window {
			v := magnitude / m.window
			if v > level {
				level = v
			} else {
				level = int(float64(v)*0.05 + float64(level)*0.95)
			}
			magnitude, points = 0, 0
		}
	}
	m.level.Store(int64(level))
	return level
}

func (m *VolumeMeter) Level() int { return int(m.level.Load()) }

func (m *VolumeMeter) Reset() { m.level.Store(0) }
