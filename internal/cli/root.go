package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var (
	projectDir string
	outputJSON bool
	logLevel   string
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "subburn",
		Short:         "Compile timed text into SRT, WebVTT and styled ASS subtitles",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides logging.level")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newFontsCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newServeCmd())

	convertCmd := newConvertCmd()
	cmd.AddCommand(convertCmd)
	// convert operates on standalone file paths; the project flag doesn't apply.
	if f := convertCmd.InheritedFlags().Lookup("project"); f != nil {
		f.Hidden = true
	}

	return cmd
}
