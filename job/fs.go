package job

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files.
// Job inputs are read, and job outputs are written, through it.
type CreateFS interface {
	fs.StatFS
	// Create creates a new file for writing. The file replaces any
	// existing file of the same name when it is closed, unless a write to
	// it failed.
	Create(name string) (file io.WriteCloser, err error)
}

// Aborter is implemented by created files that can be discarded
// instead of closed.
type Aborter interface {
	Abort()
}

// WriteFile replaces the file name of cfs with data. If the write fails,
// any existing file is left in place.
func WriteFile(cfs CreateFS, name string, data []byte) (err error) {
	ouf, err := cfs.Create(name)
	if err != nil {
		return
	}

	_, err = ouf.Write(data)
	if err != nil {
		if ab, ok := ouf.(Aborter); ok {
			ab.Abort()
		} else {
			ouf.Close()
		}
		return
	}

	return ouf.Close()
}

type dirFS struct {
	fs.StatFS
	dir string
}

// DirFS returns a CreateFS for the files under dir.
// Created files are written to a temporary file, and renamed into place on
// Close, so readers never see a partial file.
func DirFS(dir string) CreateFS {
	return &dirFS{
		StatFS: os.DirFS(dir).(fs.StatFS),
		dir:    dir,
	}
}

// Create implements CreateFS.
func (df *dirFS) Create(name string) (file io.WriteCloser, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
		return
	}

	path := filepath.Join(df.dir, filepath.FromSlash(name))
	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fusegen-*")
	if err != nil {
		return
	}

	err = tmp.Chmod(0o644)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}

	file = &atomicFile{File: tmp, path: path}
	return
}

type atomicFile struct {
	*os.File
	path string
	err  error // First write error.
}

// Write writes to the temporary file.
func (af *atomicFile) Write(data []byte) (n int, err error) {
	if af.err != nil {
		return 0, af.err
	}

	n, err = af.File.Write(data)
	if err != nil {
		af.err = err
	}

	return
}

// Abort closes and removes the temporary file, leaving any existing file in
// place.
func (af *atomicFile) Abort() {
	af.File.Close()
	os.Remove(af.File.Name())
}

// Close closes the temporary file, and renames it into place. After a failed
// write, the temporary file is removed instead, and the write error returned.
func (af *atomicFile) Close() (err error) {
	if af.err != nil {
		af.Abort()
		return af.err
	}

	err = af.File.Close()
	if err == nil {
		err = os.Rename(af.File.Name(), af.path)
	}
	if err != nil {
		os.Remove(af.File.Name())
	}

	return
}
