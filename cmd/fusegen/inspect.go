package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/fusegen/fuse"
	"github.com/ezrec/fusegen/table"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] FILE...",
	Short: "Show the contents of FUSE test files",
	Long:  `Inspect parses FUSE test files, and shows their record, event, chunk and byte counts`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolP("list", "l", false, "list every test record")
}

func runInspect(cmd *cobra.Command, args []string) (err error) {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return
	}

	w := cmd.OutOrStdout()

	var total fuse.Stats
	tables := make([]table.Table, 0, len(args))
	for _, file := range args {
		parser := &fuse.Parser{
			Verbose: verbose(cmd),
			Name:    file,
		}

		var tests []fuse.TestCase
		var stats fuse.Stats
		tests, stats, err = parser.ParseFile(file)
		if err != nil {
			return
		}
		total.Merge(stats)
		tables = append(tables, table.Table{Name: file, Tests: tests})

		nameColor.Fprintf(w, "%v", file)
		fmt.Fprintln(w, formatStats(stats))
	}

	if len(args) > 1 {
		nameColor.Fprintf(w, "%v", f("total"))
		fmt.Fprintln(w, formatStats(total))
	}

	if !list {
		return
	}

	for file, tc := range table.All(tables...) {
		nameColor.Fprintf(w, "%v", file)
		fmt.Fprintln(w, f(": %v: %d events, %d chunks, %d ticks",
			tc.Description, len(tc.Events), len(tc.Chunks), tc.Extra.Ticks))
	}

	return
}

func formatStats(stats fuse.Stats) string {
	return f(": %d records, %d events, %d chunks, %d bytes",
		stats.Records, stats.Events, stats.Chunks, stats.Bytes)
}

