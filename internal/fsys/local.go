package fsys

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// LocalFileSystem represents a local disk filesystem
type LocalFileSystem struct{}

// NewLocalFileSystem yields a local disk filesystem.
func NewLocalFileSystem() LocalFileSystem {
	return LocalFileSystem{}
}

// Create takes a path, creates the file and then returns a File back that
// can be used. This returns an error if the file can not be created in
// some way.
func (LocalFileSystem) Create(path string) (File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return localFile{f}, nil
}

// Open takes a path, opens a potential file and then returns a File if
// that file exists, otherwise it returns an error if the file wasn't found.
func (fs LocalFileSystem) Open(path string) (File, error) {
	f, err := os.Open(path)
	return fs.open(f, err)
}

// OpenFile takes a path, opens a potential file and then returns a File if
// that file exists, otherwise it returns an error if the file wasn't found.
func (fs LocalFileSystem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(path, flag, perm)
	return fs.open(f, err)
}

// Rename takes a current destination path and a new destination path and
// will rename a File if it exists, otherwise it returns an error if the
// file wasn't found.
func (LocalFileSystem) Rename(oldname, newname string) error {
	return errors.WithStack(os.Rename(oldname, newname))
}

// Exists takes a path and checks to see if the potential file exists or
// not.
func (LocalFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	return !os.IsNotExist(err)
}

// Remove takes a path, removes a potential file, if no file doesn't exist
// it will return not found.
func (LocalFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return ErrNotFound(err)
	}
	return errors.WithStack(err)
}

// MkdirAll takes a path and generates a directory structure from that
// path, if there is a failure it will return an error.
func (LocalFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return errors.WithStack(os.MkdirAll(path, perm))
}

// CopyFile copies a file, overwriting the target if it exists.
func (LocalFileSystem) CopyFile(source, dest string) error {
	s, err := os.Open(source)
	if err != nil {
		return errors.WithStack(err)
	}
	defer s.Close()

	fi, err := s.Stat()
	if err != nil {
		return errors.WithStack(err)
	}

	d, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode())
	if err != nil {
		return errors.WithStack(err)
	}
	defer d.Close()

	_, err = io.Copy(d, s)
	return errors.WithStack(err)
}

func (LocalFileSystem) open(f *os.File, err error) (File, error) {
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound(err)
		}
		return nil, errors.WithStack(err)
	}
	return localFile{f}, nil
}

type localFile struct {
	*os.File
}

func (f localFile) Size() int64 {
	fi, err := f.Stat()
	if err != nil {
		return -1
	}
	return fi.Size()
}
