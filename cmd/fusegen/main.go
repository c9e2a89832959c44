// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command fusegen converts FUSE Z80 test files into data tables.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/fusegen/translate"
)

var f = translate.From

// ErrColor is returned for an unknown --color mode.
type ErrColor string

func (err ErrColor) Error() string {
	return f("unknown color mode '%v', expected auto, on or off", string(err))
}

var (
	nameColor = color.New(color.FgCyan, color.Bold)
	doneColor = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:               "fusegen",
	Short:             "Convert FUSE Z80 test files into data tables",
	Long:              `fusegen parses the tests.in and tests.expected files of the FUSE Z80 test suite, and writes them as C, Go or MessagePack tables`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose mode")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("lang", "", "message language, as a BCP 47 tag")
}

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// setup applies the persistent flags.
func setup(cmd *cobra.Command, args []string) (err error) {
	flags := cmd.Root().PersistentFlags()

	lang, err := flags.GetString("lang")
	if err != nil {
		return
	}
	if len(lang) != 0 {
		err = translate.SetLanguage(lang)
		if err != nil {
			return
		}
	}

	mode, err := flags.GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		err = ErrColor(mode)
	}

	return
}

// isTerminal is true if file is a terminal.
func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// verbose returns the --verbose flag.
func verbose(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	return v
}
