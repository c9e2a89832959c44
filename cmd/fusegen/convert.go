package main

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/fusegen/fuse"
	"github.com/ezrec/fusegen/job"
	"github.com/ezrec/fusegen/table"
)

// ErrTableArg is returned for a convert argument that is not NAME=FILE.
type ErrTableArg string

func (err ErrTableArg) Error() string {
	return f("'%v' is not NAME=FILE", string(err))
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] NAME=FILE...",
	Short: "Convert FUSE test files into one output",
	Long:  `Convert parses each FILE into a table called NAME, and writes all tables, in argument order, to a single output`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "-", "output file, '-' for stdout")
	convertCmd.Flags().String("format", table.DefaultFormat, "output format ("+strings.Join(table.Formats(), "|")+")")
	convertCmd.Flags().String("package", table.DefaultPackage, "package name of go output")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return
	}

	enc, err := table.Lookup(format)
	if err != nil {
		return
	}
	if gs, ok := enc.(*table.GoSource); ok {
		gs.Package = pkg
	}

	tables := make([]table.Table, 0, len(args))
	for _, arg := range args {
		name, file, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 || len(file) == 0 {
			err = ErrTableArg(arg)
			return
		}

		if verbose(cmd) {
			log.Printf("# fuse %v => %v", file, output)
		}

		var tests []fuse.TestCase
		parser := &fuse.Parser{
			Verbose: verbose(cmd),
			Name:    file,
		}
		tests, _, err = parser.ParseFile(file)
		if err != nil {
			return
		}
		tables = append(tables, table.Table{Name: name, Tests: tests})
	}

	buf := &bytes.Buffer{}
	err = enc.Encode(buf, tables...)
	if err != nil {
		return
	}

	if output == "-" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return
	}

	return job.WriteFile(job.DirFS(filepath.Dir(output)), filepath.Base(output), buf.Bytes())
}
