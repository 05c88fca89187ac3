// Package archive reads release tarballs without unpacking them.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/klauspost/compress/gzip"
)

// ErrStop ends a Walk early without reporting an error.
var ErrStop = errors.New("stop walking archive")

// Entry describes one member of a tarball.
type Entry struct {
	Name       string
	Size       int64
	Mode       int64
	Executable bool
}

// Inspector examines .tar.gz files.
type Inspector struct{}

// NewInspector creates a new inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Walk calls fn for every regular file in the archive at archivePath.
// Returning ErrStop from fn ends the walk early.
func (i *Inspector) Walk(archivePath string, fn func(Entry) error) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		entry := Entry{
			Name:       header.Name,
			Size:       header.Size,
			Mode:       header.Mode,
			Executable: header.Mode&0o111 != 0,
		}
		if err := fn(entry); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// Contains reports whether the archive holds a regular file whose base
// name is name. Directories in the member path are ignored, so both
// "frobber" and "frobber-1.0/frobber" match "frobber".
func (i *Inspector) Contains(archivePath, name string) (bool, error) {
	found := false
	err := i.Walk(archivePath, func(e Entry) error {
		if path.Base(e.Name) == name {
			found = true
			return ErrStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
