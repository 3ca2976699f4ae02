package cloud

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/giongto35/screen-recorder/pkg/recorder"
)

// Uploader sends completed recordings to the storage in the background.
type Uploader struct {
	recorder.ObserverFuncs

	st     Storage
	prefix string
	log    *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// OnUpload is called after each upload with its error.
	OnUpload func(path string, err error)
}

func NewUploader(st Storage, prefix string, log *logger.Logger) *Uploader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Uploader{st: st, prefix: prefix, log: log.Component("upload"), ctx: ctx, cancel: cancel}
}

// OnComplete uploads the output of a finished recording.
// Stream recordings have no output path and are skipped.
func (u *Uploader) OnComplete(r recorder.Result) {
	if r.Path == "" {
		return
	}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		err := Upload(u.ctx, u.st, r.Path, u.prefix)
		if err != nil {
			u.log.Error().Err(err).Msgf("upload of [%v] has failed", r.Path)
		} else {
			u.log.Info().Msgf("[%v] has been uploaded to %v", r.Path, u.st)
		}
		if u.OnUpload != nil {
			u.OnUpload(r.Path, err)
		}
	}()
}

func (u *Uploader) Run() {}

// Shutdown waits for the started uploads, they are canceled with the context.
func (u *Uploader) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() { u.wg.Wait(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		u.cancel()
		<-done
		return ctx.Err()
	}
}

func (u *Uploader) String() string { return fmt.Sprintf("upload::%v", u.st) }

// Upload saves a file or all the files of a folder under the prefix.
// Folder files keep their relative paths.
func Upload(ctx context.Context, st Storage, src, prefix string) error {
	if st == nil {
		return ErrNotInitialized
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	base := filepath.Base(src)
	if !info.IsDir() {
		return save(ctx, st, src, path.Join(prefix, base), info.Size())
	}
	var errs error
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if err := save(ctx, st, p, path.Join(prefix, base, filepath.ToSlash(rel)), fi.Size()); err != nil {
			errs = errors.Join(errs, fmt.Errorf("%v: %w", rel, err))
		}
		return nil
	})
	return errors.Join(err, errs)
}

func save(ctx context.Context, st Storage, src, name string, size int64) (err error) {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	return st.Save(ctx, name, f, size, map[string]string{"source": filepath.Base(src)})
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
