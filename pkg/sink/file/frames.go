package file

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/render"
)

const (
	rawFile = "f%07d__%dx%d__%d.raw"
	pngFile = "f%07d.png"
)

// frameWriter saves frames into separate files in the background.
type frameWriter struct {
	dir    string
	format string
	id     int
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

func newFrameWriter(dir, format string) (*frameWriter, error) {
	switch format {
	case "", "raw":
		format = "raw"
	case "png":
	default:
		return nil, fmt.Errorf("unsupported frame format: %v", format)
	}
	return &frameWriter{dir: dir, format: format}, nil
}

// Write queues the frame and returns the name of its file.
// The frame must not be changed afterwards.
func (w *frameWriter) Write(img *image.RGBA) string {
	w.id++
	var name string
	if w.format == "png" {
		name = fmt.Sprintf(pngFile, w.id)
	} else {
		name = fmt.Sprintf(rawFile, w.id, img.Bounds().Dx(), img.Bounds().Dy(), img.Stride)
	}
	w.wg.Add(1)
	go w.save(name, img)
	return name
}

func (w *frameWriter) save(name string, img *image.RGBA) {
	defer w.wg.Done()
	data := img.Pix
	if w.format == "png" {
		var err error
		if data, err = render.EncodePNG(img); err != nil {
			w.fail(err)
			return
		}
	}
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0644); err != nil {
		w.fail(err)
	}
}

func (w *frameWriter) fail(err error) {
	w.mu.Lock()
	w.err = errors.Join(w.err, err)
	w.mu.Unlock()
}

// Err returns write errors that happened so far.
func (w *frameWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *frameWriter) Close() error {
	w.wg.Wait()
	return w.Err()
}

// ExtractFileInfo returns the frame geometry encoded into a raw frame name.
func ExtractFileInfo(name string) (w, h, st string) {
	s1 := strings.Split(name, "__")
	if len(s1) > 2 {
		s12 := strings.Split(s1[1], "x")
		if len(s12) > 1 {
			w, h = s12[0], s12[1]
		}
		st = strings.TrimSuffix(s1[2], filepath.Ext(s1[2]))
	}
	return
}
