package recorder

import (
	"image"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/media"
	"github.com/giongto35/screen-recorder/pkg/render"
)

// FrameStore is a double buffer of captured frames.
//
// The current slot keeps the last acquired frame, the previous slot keeps
// the last frame worth repeating. A texture is never kept in both slots,
// content moves between them with a single device copy.
type FrameStore struct {
	mu       sync.Mutex
	dev      render.Device
	current  *image.RGBA
	previous *image.RGBA
}

func NewFrameStore(dev render.Device) *FrameStore { return &FrameStore{dev: dev} }

// Bind moves the store to another device, all frames are dropped.
func (s *FrameStore) Bind(dev render.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev, s.current, s.previous = dev, nil, nil
}

// Put makes the frame current, the replaced current frame becomes previous.
func (s *FrameStore) Put(frame *image.RGBA) {
	if frame == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current != frame {
		s.previous = s.current
	}
	s.current = frame
}

// PromoteCurrentToPrevious copies the current frame into the previous slot.
// The previous texture is reused when it has the same size.
func (s *FrameStore) PromoteCurrentToPrevious() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	size := media.SizeOf(s.current.Bounds())
	if s.previous == nil || !media.SizeOf(s.previous.Bounds()).Eq(size) {
		tex, err := s.dev.NewTexture(size)
		if err != nil {
			return err
		}
		s.previous = tex
	}
	return s.dev.Copy(s.previous, s.current)
}

// RestoreFromPrevious puts a copy of the previous frame into the current slot.
// It returns false if there is nothing to restore.
func (s *FrameStore) RestoreFromPrevious() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.previous == nil {
		return false, nil
	}
	tex, err := render.Clone(s.dev, s.previous)
	if err != nil {
		return false, err
	}
	s.current = tex
	return true, nil
}

// SynthesizeBlank puts a zero-filled frame into the current slot.
func (s *FrameStore) SynthesizeBlank(size media.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tex, err := s.dev.NewTexture(size)
	if err != nil {
		return err
	}
	s.current = tex
	return nil
}

// TakeCurrent removes the current frame from the store
// and gives it to the caller.
func (s *FrameStore) TakeCurrent() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.current
	s.current = nil
	return f
}

func (s *FrameStore) Current() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FrameStore) Previous() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}

func (s *FrameStore) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == nil && s.previous == nil
}

// Release drops both frames.
func (s *FrameStore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.previous = nil, nil
}
