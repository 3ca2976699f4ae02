// Package portaudio records the default input device.
package portaudio

import (
	"errors"
	"io"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/audio"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/thread"
	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 480

// Microphone captures 16-bit PCM from the default input device.
type Microphone struct {
	mu     sync.Mutex
	format media.AudioFormat
	stream *portaudio.Stream
	log    *logger.Logger
}

func NewMicrophone(format media.AudioFormat, log *logger.Logger) *Microphone {
	format.BitsPerSample = 16
	return &Microphone{format: format, log: log.Component("mic")}
}

func (m *Microphone) Format() media.AudioFormat { return m.format }

// Start opens the input stream, the samples go into the sink
// from the portaudio callback thread.
// Device calls are made on the main thread.
func (m *Microphone) Start(sink io.Writer) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return errors.New("microphone is already started")
	}
	thread.MainMaybe(func() { err = m.open(sink) })
	if err == nil {
		m.log.Info().Msgf("recording %vHz x%v", m.format.SampleRate, m.format.Channels)
	}
	return
}

func (m *Microphone) open(sink io.Writer) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	rate := m.format.SampleRate
	if dev, err := portaudio.DefaultInputDevice(); err == nil && dev.DefaultSampleRate > 0 {
		rate = int(dev.DefaultSampleRate)
	}
	conv := audio.NewConverter(rate, m.format, sink)
	stream, err := portaudio.OpenDefaultStream(m.format.Channels, 0, float64(rate), framesPerBuffer,
		func(in []int16) {
			if err := conv.Write(in); err != nil {
				m.log.Error().Err(err).Msg("audio write")
			}
		})
	if err != nil {
		_ = portaudio.Terminate()
		return err
	}
	if err = stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return err
	}
	m.stream = stream
	m.log.Debug().Msgf("device rate %vHz", rate)
	return nil
}

func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	var err error
	thread.MainMaybe(func() { err = errors.Join(m.stream.Stop(), m.stream.Close(), portaudio.Terminate()) })
	m.stream = nil
	return err
}
