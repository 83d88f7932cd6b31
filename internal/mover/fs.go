package mover

import (
	"io"
	"os"
	"syscall"
)

// errCrossDevice is the errno os.Rename wraps when the move crosses
// filesystem boundaries.
var errCrossDevice = syscall.EXDEV

// FS is the narrow filesystem surface the mover needs. Tests inject an
// in-memory implementation; production code uses OSFS.
type FS interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	Chmod(name string, mode os.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
}

// OSFS implements FS on the real filesystem.
type OSFS struct{}

func (OSFS) Stat(name string) (os.FileInfo, error)        { return os.Stat(name) }
func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (OSFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (OSFS) Remove(name string) error                     { return os.Remove(name) }
func (OSFS) Chmod(name string, mode os.FileMode) error    { return os.Chmod(name, mode) }
func (OSFS) Open(name string) (io.ReadCloser, error)      { return os.Open(name) }
func (OSFS) Create(name string) (io.WriteCloser, error)   { return os.Create(name) }
