package file

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
)

func compressToFile(source, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	return compress(source, f)
}

// compress writes the source directory as a zip archive.
func compress(source string, out io.Writer) (err error) {
	writer := zip.NewWriter(out)
	defer func() { err = errors.Join(err, writer.Close()) }()

	return filepath.Walk(source, func(path string, info os.FileInfo, err error) (er error) {
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Method = zip.Deflate
		header.Name, err = filepath.Rel(filepath.Dir(source), path)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(header.Name)
		if info.IsDir() {
			header.Name += "/"
		}
		headerWriter, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { er = errors.Join(er, f.Close()) }()

		_, err = io.Copy(headerWriter, f)
		return err
	})
}
