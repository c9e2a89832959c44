// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package job runs FUSE conversion jobs described by a manifest.
//
// A job converts one or more FUSE test files into a single generated output,
// one table per file. A TOML manifest describes jobs as:
//
//	[[job]]
//	name = "z80"
//	output = "fuse/fuse.h"
//
//	[[job.table]]
//	name = "fuse_input"
//	file = "fuse/tests.in"
//
//	[[job.table]]
//	name = "fuse_expected"
//	file = "fuse/tests.expected"
//
// A Starlark manifest describes the same job with the fuse_job builtin:
//
//	fuse_job(
//	    name = "z80",
//	    output = "fuse/fuse.h",
//	    tables = {
//	        "fuse_input": "fuse/tests.in",
//	        "fuse_expected": "fuse/tests.expected",
//	    },
//	)
package job

import (
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/fusegen/table"
)

// Input is a FUSE test file, and the name of its table.
type Input struct {
	Name string `toml:"name"` // Table name.
	File string `toml:"file"` // Path of the test file, relative to the job directory.
}

// Job converts FUSE test files into a generated output.
type Job struct {
	Name    string  `toml:"name"`    // Name of the job, used in messages.
	Dir     string  `toml:"dir"`     // Base directory of inputs and output.
	Output  string  `toml:"output"`  // Path of the output, relative to Dir.
	Format  string  `toml:"format"`  // Output format, see table.Formats().
	Package string  `toml:"package"` // Package of Go source output.
	Tables  []Input `toml:"table"`   // Inputs, in table order.

	FS CreateFS `toml:"-"` // File system of Dir.
}

// validate checks the job for completeness.
func (job *Job) validate() (err error) {
	if len(job.Output) == 0 {
		return ErrJobOutput
	}
	if !fs.ValidPath(job.Output) {
		return ErrPath(job.Output)
	}

	if len(job.Tables) == 0 {
		return ErrJobTables
	}
	for _, in := range job.Tables {
		if len(in.Name) == 0 || len(in.File) == 0 {
			return ErrJobInput
		}
		if !fs.ValidPath(in.File) {
			return ErrPath(in.File)
		}
	}

	_, err = table.Lookup(job.Format)
	return
}

// Manifest is a set of jobs.
type Manifest struct {
	Path string `toml:"-"`   // Path of the manifest file.
	Jobs []*Job `toml:"job"` // Jobs, in manifest order.
}

// LoadManifest loads a .toml or .star manifest. Job directories are
// resolved relative to the directory of the manifest.
func LoadManifest(path string) (m *Manifest, err error) {
	defer func() {
		if err != nil {
			m = nil
			err = &ErrManifest{Path: path, Err: err}
		}
	}()

	switch filepath.Ext(path) {
	case ".toml":
		m, err = loadToml(path)
	case ".star":
		m, err = loadStarlark(path)
	default:
		err = ErrManifestType
	}
	if err != nil {
		return
	}

	if len(m.Jobs) == 0 {
		err = ErrManifestEmpty
		return
	}

	m.Path = path
	base := filepath.Dir(path)
	for _, job := range m.Jobs {
		if len(job.Name) == 0 {
			job.Name = job.Output
		}
		if !filepath.IsAbs(job.Dir) {
			job.Dir = filepath.Join(base, job.Dir)
		}
		job.FS = DirFS(job.Dir)

		err = job.validate()
		if err != nil {
			err = &ErrJob{Name: job.Name, Err: err}
			return
		}
	}

	return
}

func loadToml(path string) (m *Manifest, err error) {
	m = &Manifest{}

	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return
	}

	if !meta.IsDefined("job") {
		err = ErrManifestEmpty
		return
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		err = ErrManifestKey(undecoded[0].String())
		return
	}

	return
}
