package job

import (
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// loadStarlark executes a Starlark manifest. Each call of the fuse_job
// builtin adds a job.
func loadStarlark(path string) (m *Manifest, err error) {
	m = &Manifest{}

	fuseJob := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		job := &Job{}
		var tables *starlark.Dict
		err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &job.Name,
			"output", &job.Output,
			"tables", &tables,
			"format?", &job.Format,
			"package?", &job.Package,
			"dir?", &job.Dir,
		)
		if err != nil {
			return nil, err
		}

		for _, item := range tables.Items() {
			name, ok := starlark.AsString(item[0])
			if !ok {
				return nil, ErrStarlarkTables
			}
			file, ok := starlark.AsString(item[1])
			if !ok {
				return nil, ErrStarlarkTables
			}
			job.Tables = append(job.Tables, Input{Name: name, File: file})
		}

		m.Jobs = append(m.Jobs, job)
		return starlark.None, nil
	}

	thread := starlark.Thread{
		Name: path,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", path, msg)
		},
	}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"fuse_job": starlark.NewBuiltin("fuse_job", fuseJob),
	}

	_, err = starlark.ExecFileOptions(&opts, &thread, path, nil, pred)
	return
}
