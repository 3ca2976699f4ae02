package file

import (
	"encoding/binary"
	"errors"

	"github.com/giongto35/screen-recorder/pkg/media"
)

const (
	audioFile         = "audio.wav"
	audioFileRIFFSize = 44
)

// wavStream writes PCM data into a WAV file,
// the header is filled in when the stream is closed.
type wavStream struct {
	format media.AudioFormat
	wav    *file
}

func newWavStream(dir string, format media.AudioFormat) (*wavStream, error) {
	wav, err := newFile(dir, audioFile)
	if err != nil {
		return nil, err
	}
	// add pad for RIFF
	if err = wav.Write(make([]byte, audioFileRIFFSize)); err != nil {
		return nil, errors.Join(err, wav.Close())
	}
	return &wavStream{format: format, wav: wav}, nil
}

func (w *wavStream) Write(pcm []byte) error { return w.wav.Write(pcm) }

func (w *wavStream) Close() (err error) {
	err = w.wav.Flush()
	size, er := w.wav.Size()
	if er != nil {
		err = errors.Join(err, er)
	}
	if size > 0 {
		// write an actual RIFF header
		err = errors.Join(err, w.wav.WriteAtStart(rIFFWavHeader(uint32(size), w.format)))
	}
	return errors.Join(err, w.wav.Close())
}

// rIFFWavHeader creates RIFF WAV header.
// See: http://soundfile.sapp.org/doc/WaveFormat
func rIFFWavHeader(fSize uint32, f media.AudioFormat) []byte {
	aSize := fSize - audioFileRIFFSize
	h := make([]byte, audioFileRIFFSize)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], aSize+36)
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	// Subchunk1Size
	binary.LittleEndian.PutUint32(h[16:], 16)
	// PCM
	binary.LittleEndian.PutUint16(h[20:], 1)
	binary.LittleEndian.PutUint16(h[22:], uint16(f.Channels))
	binary.LittleEndian.PutUint32(h[24:], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(h[28:], uint32(f.SampleRate*f.FrameBytes()))
	binary.LittleEndian.PutUint16(h[32:], uint16(f.FrameBytes()))
	binary.LittleEndian.PutUint16(h[34:], uint16(f.BitsPerSample))
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], aSize)
	return h
}
