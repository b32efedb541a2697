package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/state"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which cue files a batch run would compile and why",
		RunE:  runStatus,
	}
}

type statusJSONRow struct {
	Cue    string `json:"cue"`
	Output string `json:"output,omitempty"`
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
	Issues int    `json:"issues"`
	Error  string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	cuePaths, err := proj.Paths.CueFiles()
	if err != nil {
		return err
	}

	results, err := batch.NewService(proj.Paths, proj.Config, proj.Logger).Plan(cuePaths, batch.Options{})
	if err != nil {
		return err
	}

	rows := make([]statusJSONRow, 0, len(results))
	for _, res := range results {
		row := statusJSONRow{
			Cue:    res.CuePath,
			Output: res.OutputPath,
			Action: state.ActionCompile,
			Reason: res.Reason,
			Issues: res.Issues,
			Error:  errorString(res.Err),
		}
		switch {
		case res.Err != nil:
			row.Action = "error"
		case res.Skipped:
			row.Action = state.ActionSkip
		}
		rows = append(rows, row)
	}

	if outputJSON {
		return writeJSON(cmd, "status", struct {
			Project string          `json:"project"`
			Cues    []statusJSONRow `json:"cues"`
		}{Project: proj.Paths.Root, Cues: rows})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", proj.Paths.Root)
	if len(rows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no cue files in %s\n", proj.Paths.CuesDir)
		return nil
	}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		detail := row.Reason
		if row.Error != "" {
			detail = row.Error
		}
		table = append(table, []string{
			filepath.Base(row.Cue),
			nonEmptyOrDash(relOrSelf(proj.Paths.Root, row.Output)),
			row.Action,
			nonEmptyOrDash(detail),
			strconv.Itoa(row.Issues),
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), renderTable(
		[]string{"Cue", "Output", "Action", "Reason", "Issues"},
		table,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func relOrSelf(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
