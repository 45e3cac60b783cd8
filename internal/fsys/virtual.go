package fsys

import (
	"bytes"
	"os"
	"sync"
)

// VirtualFileSystem represents an in-memory filesystem.
type VirtualFileSystem struct {
	mutex sync.RWMutex
	files map[string]*virtualFile
}

// NewVirtualFileSystem yields an in-memory filesystem.
func NewVirtualFileSystem() *VirtualFileSystem {
	return &VirtualFileSystem{
		files: map[string]*virtualFile{},
	}
}

// Create takes a path, creates the file and then returns a File back that
// can be used. This returns an error if the file can not be created in
// some way.
func (fs *VirtualFileSystem) Create(path string) (File, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	// os.Create truncates any existing file. So we do, too.
	f := &virtualFile{
		name: path,
	}
	fs.files[path] = f

	return f, nil
}

// Open takes a path, opens a potential file and then returns a File if
// that file exists, otherwise it returns an error if the file wasn't found.
func (fs *VirtualFileSystem) Open(path string) (File, error) {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()

	f, ok := fs.files[path]
	if !ok {
		return nil, ErrNotFound(os.ErrNotExist)
	}

	return &virtualFile{
		name: f.name,
		buf:  *bytes.NewBuffer(f.buf.Bytes()),
	}, nil
}

// OpenFile takes a path, opens a potential file and then returns a File if
// that file exists, otherwise it returns an error if the file wasn't found.
func (fs *VirtualFileSystem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if flag&os.O_CREATE != 0 {
		return fs.Create(path)
	}
	return fs.Open(path)
}

// Rename takes a current destination path and a new destination path and
// will rename a File if it exists, otherwise it returns an error if the
// file wasn't found.
func (fs *VirtualFileSystem) Rename(oldname, newname string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	f, ok := fs.files[oldname]
	if !ok {
		return ErrNotFound(os.ErrNotExist)
	}

	delete(fs.files, oldname)
	f.name = newname
	fs.files[newname] = f
	return nil
}

// Exists takes a path and checks to see if the potential file exists or
// not.
func (fs *VirtualFileSystem) Exists(path string) bool {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()

	_, ok := fs.files[path]
	return ok
}

// Remove takes a path, removes a potential file, if no file doesn't exist
// it will return not found.
func (fs *VirtualFileSystem) Remove(path string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if _, ok := fs.files[path]; !ok {
		return ErrNotFound(os.ErrNotExist)
	}

	delete(fs.files, path)
	return nil
}

// MkdirAll takes a path and generates a directory structure from that
// path, if there is a failure it will return an error.
func (fs *VirtualFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return nil
}

// CopyFile copies a file, overwriting the target if it exists.
func (fs *VirtualFileSystem) CopyFile(source, dest string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	f, ok := fs.files[source]
	if !ok {
		return ErrNotFound(os.ErrNotExist)
	}

	fs.files[dest] = &virtualFile{
		name: dest,
		buf:  *bytes.NewBuffer(f.buf.Bytes()),
	}
	return nil
}

type virtualFile struct {
	name string
	buf  bytes.Buffer
}

func (f *virtualFile) Read(p []byte) (int, error) {
	return f.buf.Read(p)
}

func (f *virtualFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *virtualFile) Close() error {
	return nil
}

func (f *virtualFile) Name() string {
	return f.name
}

func (f *virtualFile) Size() int64 {
	return int64(f.buf.Len())
}

func (f *virtualFile) Sync() error {
	return nil
}
