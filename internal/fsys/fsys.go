package fsys

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileSystem is an abstraction over the native filesystem, covering the
// operations the ledger requires for loading configuration material.
type FileSystem interface {

	// Create takes a path, creates the file and then returns a File back
	// that can be used. This returns an error if the file can not be
	// created in some way.
	Create(string) (File, error)

	// Open takes a path, opens a potential file and then returns a File if
	// that file exists, otherwise it returns an error if the file wasn't
	// found.
	Open(string) (File, error)

	// OpenFile takes a path, opens a potential file and then returns a File
	// if that file exists, otherwise it returns an error if the file wasn't
	// found.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Rename takes a current destination path and a new destination path
	// and will rename a File if it exists, otherwise it returns an error if
	// the file wasn't found.
	Rename(string, string) error

	// Exists takes a path and checks to see if the potential file exists or
	// not.
	// Note: If there is an error trying to read that file, it will return
	// false even if the file already exists.
	Exists(string) bool

	// Remove takes a path, removes a potential file, if no file doesn't
	// exist it will return not found.
	Remove(string) error

	// MkdirAll takes a path and generates a directory structure from that
	// path, if there is a failure it will return an error.
	MkdirAll(string, os.FileMode) error

	// CopyFile copies a file, overwriting the target if it exists.
	CopyFile(string, string) error
}

// File is an abstraction for reading, writing and also closing a file.
type File interface {
	io.Reader
	io.Writer
	io.Closer

	// Name returns the name of the file
	Name() string

	// Size returns the size of the file
	Size() int64

	// Sync attempts to sync the file with the underlying storage or errors
	// if it can't not succeed.
	Sync() error
}

type notFoundError struct {
	err error
}

func (e notFoundError) Error() string {
	return e.err.Error()
}

// ErrNotFound creates a new error that describes a file that can not be
// located.
func ErrNotFound(err error) error {
	return notFoundError{err: err}
}

// ErrorNotFound returns true if the error is a not found error.
func ErrorNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := errors.Cause(err).(notFoundError)
	return ok
}
