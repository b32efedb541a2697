package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/logx"
	"subburn/pkg/cuesheet"
)

var (
	compileFormat string
	compileOutput string
	compileScale  float64
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <cue-file>",
		Short: "Compile one cue file into a subtitle document",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}

	cmd.Flags().StringVar(&compileFormat, "format", "", "Output format (srt, vtt, ass); defaults to the cue file's or output.format")
	cmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Output file, or - for stdout; defaults to the project output directory")
	cmd.Flags().Float64Var(&compileScale, "scale", 0, "Override the size multiplier")
	return cmd
}

type compileJSON struct {
	Cue    string   `json:"cue"`
	Output string   `json:"output"`
	Format string   `json:"format"`
	Styles int      `json:"styles"`
	Events int      `json:"events"`
	Fonts  []string `json:"fonts,omitempty"`
	Issues []string `json:"issues,omitempty"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	cuePath, err := resolveCuePath(proj.Paths.CuesDir, args[0])
	if err != nil {
		return err
	}

	job, issues, err := batch.LoadJob(proj.Config, cuePath)
	if err != nil {
		return err
	}
	reportIssues(cmd, cuePath, issues)
	if compileScale > 0 {
		job.Scale = &compileScale
	}

	format, err := batch.ResolveFormat(proj.Config, job, compileFormat)
	if err != nil {
		return err
	}

	obs := logx.Observer{Logger: proj.Logger, Source: cuePath}
	res, err := batch.CompileJob(proj.Config, job, format, obs)
	if err != nil {
		return err
	}

	if compileOutput == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.Text)
		return err
	}

	outPath := compileOutput
	if outPath == "" {
		outPath = proj.Paths.OutputPath(proj.Config, cuePath, format.Ext())
	}
	if err := writeFile(outPath, res.Text); err != nil {
		return err
	}

	if outputJSON {
		payload := compileJSON{
			Cue:    cuePath,
			Output: outPath,
			Format: string(format),
			Styles: res.Styles,
			Events: res.Events,
			Fonts:  res.Fonts,
		}
		for _, issue := range issues {
			payload.Issues = append(payload.Issues, issue.Error())
		}
		return writeJSON(cmd, "compile", payload)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "compiled %s → %s (%d styles, %d events)\n",
		filepath.Base(cuePath), outPath, res.Styles, res.Events)
	if len(res.Fonts) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "fonts: %s\n", strings.Join(res.Fonts, ", "))
	}
	return nil
}

// resolveCuePath accepts a path as given, falling back to the project's
// cues directory for bare names.
func resolveCuePath(cuesDir, arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return filepath.Abs(arg)
	}
	if !filepath.IsAbs(arg) {
		candidate := filepath.Join(cuesDir, arg)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cue file not found: %s", arg)
}

func reportIssues(cmd *cobra.Command, cuePath string, issues cuesheet.ValidationErrors) {
	if outputJSON {
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s (entry skipped)\n", filepath.Base(cuePath), issue.Error())
	}
}

func writeFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
