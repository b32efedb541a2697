package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the project configuration and every cue file",
		RunE:  runValidate,
	}
}

type validateFinding struct {
	Source string `json:"source"`
	config.ValidationResult
}

func runValidate(cmd *cobra.Command, _ []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	findings := collectFindings(proj)

	if outputJSON {
		if err := writeJSON(cmd, "validate", struct {
			Project  string            `json:"project"`
			Findings []validateFinding `json:"findings"`
		}{Project: proj.Paths.Root, Findings: findings}); err != nil {
			return err
		}
	} else {
		writeFindings(cmd, findings)
	}

	for _, f := range findings {
		if f.Level == "error" {
			return errors.New("validation failed")
		}
	}
	return nil
}

func collectFindings(proj *project) []validateFinding {
	var findings []validateFinding
	configName := filepath.Base(proj.Paths.ConfigFile)
	for _, r := range proj.Config.ValidateStrict(proj.Paths.CuesDir) {
		findings = append(findings, validateFinding{Source: configName, ValidationResult: r})
	}

	cues, err := proj.Paths.CueFiles()
	if err != nil {
		return append(findings, validateFinding{
			Source:           "cues",
			ValidationResult: config.ValidationResult{Level: "error", Message: err.Error()},
		})
	}
	for _, cue := range cues {
		name := filepath.Base(cue)
		job, issues, err := batch.LoadJob(proj.Config, cue)
		if err != nil {
			findings = append(findings, validateFinding{
				Source:           name,
				ValidationResult: config.ValidationResult{Level: "error", Message: err.Error()},
			})
			continue
		}
		for _, issue := range issues {
			findings = append(findings, validateFinding{
				Source:           name,
				ValidationResult: config.ValidationResult{Level: "warning", Message: issue.Error()},
			})
		}
		if _, err := batch.ResolveFormat(proj.Config, job, ""); err != nil {
			findings = append(findings, validateFinding{
				Source:           name,
				ValidationResult: config.ValidationResult{Level: "error", Message: err.Error()},
			})
		}
	}
	return append(findings, outputCollisions(proj, cues)...)
}

// outputCollisions reports cue files that a batch run would refuse because
// an earlier cue file already writes the same output.
func outputCollisions(proj *project, cues []string) []validateFinding {
	planned, err := batch.NewService(proj.Paths, proj.Config, proj.Logger).Plan(cues, batch.Options{})
	if err != nil {
		return []validateFinding{{
			Source:           "state",
			ValidationResult: config.ValidationResult{Level: "error", Message: err.Error()},
		}}
	}
	var findings []validateFinding
	for _, res := range planned {
		if errors.Is(res.Err, batch.ErrDuplicateOutput) {
			findings = append(findings, validateFinding{
				Source:           filepath.Base(res.CuePath),
				ValidationResult: config.ValidationResult{Level: "error", Message: res.Err.Error()},
			})
		}
	}
	return findings
}

func writeFindings(cmd *cobra.Command, findings []validateFinding) {
	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(out, "Validation passed.")
		return
	}
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{f.Level, f.Source, f.Message})
	}
	fmt.Fprint(out, renderTable([]string{"Level", "Source", "Message"}, rows, nil))
}
