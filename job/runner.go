// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package job

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/fusegen/fuse"
	"github.com/ezrec/fusegen/table"
)

// Runner runs jobs.
type Runner struct {
	Verbose bool // If set, verbosely logs the runner actions.
	Force   bool // If set, regenerates outputs that are up to date.
}

// Result is the outcome of a job.
type Result struct {
	Job     *Job
	Skipped bool       // Output was up to date.
	Stats   fuse.Stats // Totals over all tables of the job.
}

// Run runs jobs concurrently. The first error cancels the remaining jobs.
func (r *Runner) Run(ctx context.Context, jobs ...*Job) (results []Result, err error) {
	results = make([]Result, len(jobs))

	group, ctx := errgroup.WithContext(ctx)
	for n, job := range jobs {
		group.Go(func() (err error) {
			results[n], err = r.RunJob(ctx, job)
			return
		})
	}

	err = group.Wait()
	return
}

// RunJob runs a single job, unless its output is up to date.
func (r *Runner) RunJob(ctx context.Context, job *Job) (result Result, err error) {
	result.Job = job
	if len(job.Name) == 0 {
		job.Name = job.Output
	}

	defer func() {
		if err != nil {
			err = &ErrJob{Name: job.Name, Err: err}
		}
	}()

	err = job.validate()
	if err != nil {
		return
	}

	if job.FS == nil {
		if len(job.Dir) == 0 {
			job.Dir = "."
		}
		job.FS = DirFS(job.Dir)
	}

	enc, err := table.Lookup(job.Format)
	if err != nil {
		return
	}
	if gs, ok := enc.(*table.GoSource); ok {
		gs.Package = job.Package
	}

	if !r.Force {
		var dirty bool
		dirty, err = r.dirty(job, enc)
		if err != nil {
			return
		}
		if !dirty {
			if r.Verbose {
				log.Printf("# fuse %v: up to date", job.Output)
			}
			result.Skipped = true
			return
		}
	}

	tables := make([]table.Table, 0, len(job.Tables))
	for _, in := range job.Tables {
		err = ctx.Err()
		if err != nil {
			return
		}

		if r.Verbose {
			log.Printf("# fuse %v => %v", in.File, job.Output)
		}

		var tests []fuse.TestCase
		var stats fuse.Stats
		tests, stats, err = r.parse(job, in)
		if err != nil {
			return
		}
		result.Stats.Merge(stats)
		tables = append(tables, table.Table{Name: in.Name, Tests: tests})
	}

	buf := &bytes.Buffer{}
	err = enc.Encode(buf, tables...)
	if err != nil {
		return
	}

	err = r.write(job, buf.Bytes())
	return
}

// parse parses a single input of a job.
func (r *Runner) parse(job *Job, in Input) (tests []fuse.TestCase, stats fuse.Stats, err error) {
	inf, err := job.FS.Open(in.File)
	if err != nil {
		return
	}
	defer inf.Close()

	parser := &fuse.Parser{
		Verbose: r.Verbose,
		Name:    filepath.Join(job.Dir, filepath.FromSlash(in.File)),
	}

	return parser.Parse(inf)
}

// write replaces the output of a job.
func (r *Runner) write(job *Job, data []byte) (err error) {
	return WriteFile(job.FS, job.Output, data)
}

// dirty is true if the output of a job is missing, older than any of its
// inputs, or was written by a different table version.
func (r *Runner) dirty(job *Job, enc table.Encoder) (dirty bool, err error) {
	out, err := job.FS.Stat(job.Output)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return
	}

	for _, in := range job.Tables {
		var info fs.FileInfo
		info, err = job.FS.Stat(in.File)
		if err != nil {
			return
		}
		if info.ModTime().After(out.ModTime()) {
			return true, nil
		}
	}

	marker, ok := enc.(table.Marker)
	if !ok {
		return
	}

	ouf, err := job.FS.Open(job.Output)
	if err != nil {
		return
	}
	defer ouf.Close()

	scanner := bufio.NewScanner(ouf)
	if !scanner.Scan() || scanner.Text() != marker.Marker() {
		dirty = true
	}

	return
}
