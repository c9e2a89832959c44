package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezrec/fusegen/job"
)

// DefaultManifest is the manifest run when none is given.
const DefaultManifest = "fusegen.toml"

var runCmd = &cobra.Command{
	Use:   "run [flags] [manifest...]",
	Short: "Run the jobs of manifests",
	Long:  `Run regenerates the outputs of every job of the .toml or .star manifests whose inputs have changed`,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Bool("force", false, "regenerate outputs that are up to date")
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return
	}

	if len(args) == 0 {
		args = []string{DefaultManifest}
	}

	var jobs []*job.Job
	for _, path := range args {
		var m *job.Manifest
		m, err = job.LoadManifest(path)
		if err != nil {
			return
		}
		jobs = append(jobs, m.Jobs...)
	}

	runner := &job.Runner{
		Verbose: verbose(cmd),
		Force:   force,
	}

	results, err := runner.Run(cmd.Context(), jobs...)
	if err != nil {
		return
	}

	w := cmd.OutOrStdout()
	for _, result := range results {
		output := filepath.Join(result.Job.Dir, filepath.FromSlash(result.Job.Output))
		nameColor.Fprintf(w, "%v", output)
		if result.Skipped {
			skipColor.Fprintln(w, f(": up to date"))
			continue
		}
		doneColor.Fprintln(w, formatStats(result.Stats))
	}

	fmt.Fprintln(w, f("%d jobs", len(results)))
	return
}
