package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/giongto35/screen-recorder/pkg/media"
)

var (
	ErrDeviceClosed = errors.New("render: device is closed")
	ErrSizeMismatch = errors.New("render: texture size mismatch")
)

// Device allocates and copies frame textures.
// It's not safe for concurrent use, every call should come from the
// goroutine that owns the device.
type Device interface {
	NewTexture(size media.Size) (*image.RGBA, error)
	Copy(dst, src *image.RGBA) error
	// RemovedReason returns nil while the device is usable.
	RemovedReason() error
	Close() error
}

// DeviceFactory creates a fresh device, it is used to replace a lost one.
type DeviceFactory func() (Device, error)

// SoftwareDevice is a Device backed by the main memory.
type SoftwareDevice struct {
	mu      sync.Mutex
	removed error
	closed  bool

	generation uint64
	textures   atomic.Int64
}

var generations atomic.Uint64

func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{generation: generations.Add(1)}
}

func SoftwareDeviceFactory() (Device, error) { return NewSoftwareDevice(), nil }

// Generation is a unique number of the device instance.
func (d *SoftwareDevice) Generation() uint64 { return d.generation }

// Allocated returns the number of textures made by the device.
func (d *SoftwareDevice) Allocated() int64 { return d.textures.Load() }

// Remove marks the device as lost with the given reason.
// All following calls fail with the reason.
func (d *SoftwareDevice) Remove(reason error) {
	d.mu.Lock()
	d.removed = reason
	d.mu.Unlock()
}

func (d *SoftwareDevice) RemovedReason() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removed
}

func (d *SoftwareDevice) check() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	return d.removed
}

func (d *SoftwareDevice) NewTexture(size media.Size) (*image.RGBA, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if size.Empty() {
		return nil, fmt.Errorf("render: bad texture size %v", size)
	}
	d.textures.Add(1)
	return image.NewRGBA(size.Rect()), nil
}

func (d *SoftwareDevice) Copy(dst, src *image.RGBA) error {
	if err := d.check(); err != nil {
		return err
	}
	if dst == nil || src == nil {
		return errors.New("render: nil texture")
	}
	if !media.SizeOf(dst.Bounds()).Eq(media.SizeOf(src.Bounds())) {
		return fmt.Errorf("%w: %v != %v", ErrSizeMismatch, dst.Bounds(), src.Bounds())
	}
	if dst.Stride == src.Stride && dst.Bounds() == src.Bounds() {
		copy(dst.Pix, src.Pix)
		return nil
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return nil
}

func (d *SoftwareDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Clone copies a texture into a new one of the same size.
func Clone(dev Device, src *image.RGBA) (*image.RGBA, error) {
	dst, err := dev.NewTexture(media.SizeOf(src.Bounds()))
	if err != nil {
		return nil, err
	}
	if err = dev.Copy(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}
