package audio

import (
	"io"

	"github.com/giongto35/screen-recorder/pkg/media"
)

// Source is a running audio capture device.
// It writes interleaved PCM into the sink given on Start.
type Source interface {
	Start(sink io.Writer) error
	Format() media.AudioFormat
	Close() error
}
