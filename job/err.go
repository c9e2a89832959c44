package job

import (
	"errors"

	"github.com/ezrec/fusegen/translate"
)

var f = translate.From

var (
	// Manifest errors
	ErrManifestEmpty  = errors.New(f("no job defined"))
	ErrManifestType   = errors.New(f("manifest must be a .toml or .star file"))
	ErrStarlarkTables = errors.New(f("fuse_job tables must map strings to strings"))

	// Job errors
	ErrJobOutput = errors.New(f("output missing"))
	ErrJobTables = errors.New(f("no tables"))
	ErrJobInput  = errors.New(f("table name or file missing"))
)

// ErrManifestKey is returned for a manifest key that is not understood.
type ErrManifestKey string

func (err ErrManifestKey) Error() string {
	return f("unknown key '%v'", string(err))
}

// ErrPath is returned for a path that is not a clean, relative, slash
// separated path.
type ErrPath string

func (err ErrPath) Error() string {
	return f("'%v' is not a valid relative path", string(err))
}

// ErrManifest locates an error in a manifest file.
type ErrManifest struct {
	Path string
	Err  error
}

func (err *ErrManifest) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrManifest) Unwrap() error {
	return err.Err
}

// ErrJob locates an error in a job.
type ErrJob struct {
	Name string
	Err  error
}

func (err *ErrJob) Error() string {
	return f("job %v: %v", err.Name, err.Err)
}

func (err *ErrJob) Unwrap() error {
	return err.Err
}
