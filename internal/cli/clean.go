package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/compile"
	"subburn/internal/paths"
	"subburn/internal/state"
)

var cleanDryRun bool

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove derived artifacts from the project",
	}

	cmd.PersistentFlags().BoolVar(&cleanDryRun, "dry-run", false, "List what would be removed without deleting")

	cmd.AddCommand(&cobra.Command{
		Use:   "outputs",
		Short: "Remove all compiled documents and the compile state",
		RunE:  runCleanOutputs,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logs",
		Short: "Remove all log files",
		RunE:  runCleanLogs,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "orphans",
		Short: "Remove compiled documents no cue file produces any more",
		RunE:  runCleanOrphans,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Remove compiled documents, logs and compile state",
		RunE:  runCleanAll,
	})

	return cmd
}

type cleanResult struct {
	Removed    int   `json:"removed"`
	FreedBytes int64 `json:"freed_bytes"`
	Skipped    int   `json:"skipped"`
	DryRun     bool  `json:"dry_run"`
}

func runCleanOutputs(cmd *cobra.Command, _ []string) error {
	pp, err := resolveCleanPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeOutputs(pp.OutputDir, out, &result)
	removeSingleFile(pp.StateFile, out, &result)

	return writeCleanResult(out, "outputs", result)
}

func runCleanLogs(cmd *cobra.Command, _ []string) error {
	pp, err := resolveCleanPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeGlob(pp.LogsDir, "*", out, &result)

	return writeCleanResult(out, "logs", result)
}

func runCleanOrphans(cmd *cobra.Command, _ []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()
	pp := proj.Paths

	expected, err := buildExpectedPaths(proj)
	if err != nil {
		return err
	}

	var actual []string
	for _, format := range compile.Formats {
		files, err := globFiles(pp.OutputDir, "*"+format.Ext())
		if err != nil {
			return err
		}
		actual = append(actual, files...)
	}

	orphans := diffPaths(actual, expected)
	sort.Strings(orphans)

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	for _, path := range orphans {
		removeFileEntry(path, out, &result)
	}

	if !cleanDryRun {
		cs, err := state.Load(pp.StateFile)
		if err != nil {
			return err
		}
		state.Prune(cs, expected)
		if err := cs.Save(pp.StateFile); err != nil {
			return fmt.Errorf("save compile state: %w", err)
		}
	}

	return writeCleanResult(out, "orphans", result)
}

func runCleanAll(cmd *cobra.Command, _ []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	// The log file of this run is about to be deleted.
	proj.Close()
	pp := proj.Paths

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeOutputs(pp.OutputDir, out, &result)
	removeGlob(pp.LogsDir, "*", out, &result)
	removeSingleFile(pp.StateFile, out, &result)

	return writeCleanResult(out, "all", result)
}

func resolveCleanPaths() (paths.ProjectPaths, error) {
	proj, err := openProject()
	if err != nil {
		return paths.ProjectPaths{}, err
	}
	proj.Close()
	return proj.Paths, nil
}

// buildExpectedPaths lists the outputs current cue files compile to.
func buildExpectedPaths(proj *project) (map[string]bool, error) {
	cues, err := proj.Paths.CueFiles()
	if err != nil {
		return nil, err
	}
	planned, err := batch.NewService(proj.Paths, proj.Config, proj.Logger).Plan(cues, batch.Options{})
	if err != nil {
		return nil, err
	}
	expected := make(map[string]bool, len(planned))
	for _, res := range planned {
		if res.OutputPath != "" {
			expected[res.OutputPath] = true
		}
	}
	return expected, nil
}

func removeOutputs(dir string, out io.Writer, result *cleanResult) {
	for _, format := range compile.Formats {
		removeGlob(dir, "*"+format.Ext(), out, result)
	}
}

func globFiles(root, pattern string) ([]string, error) {
	exists, err := paths.DirExists(root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var matches []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if pattern == "*" {
			matches = append(matches, path)
		} else if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}

func diffPaths(actual []string, expected map[string]bool) []string {
	var orphans []string
	for _, path := range actual {
		if !expected[path] {
			orphans = append(orphans, path)
		}
	}
	return orphans
}

func removeGlob(root, pattern string, out io.Writer, result *cleanResult) {
	files, err := globFiles(root, pattern)
	if err != nil {
		return
	}
	for _, path := range files {
		removeFileEntry(path, out, result)
	}
}

func removeSingleFile(path string, out io.Writer, result *cleanResult) {
	exists, err := paths.FileExists(path)
	if err != nil || !exists {
		return
	}
	removeFileEntry(path, out, result)
}

func removeFileEntry(path string, out io.Writer, result *cleanResult) {
	info, err := os.Stat(path)
	if err != nil {
		result.Skipped++
		return
	}
	size := info.Size()

	if cleanDryRun {
		fmt.Fprintf(out, "would remove %s (%s)\n", path, formatSize(size))
		result.Removed++
		result.FreedBytes += size
		return
	}

	if err := os.Remove(path); err != nil {
		if !outputJSON {
			fmt.Fprintf(out, "error removing %s: %v\n", path, err)
		}
		result.Skipped++
		return
	}

	result.Removed++
	result.FreedBytes += size
	if !outputJSON {
		fmt.Fprintf(out, "removed %s (%s)\n", path, formatSize(size))
	}
}

func writeCleanResult(out io.Writer, label string, result cleanResult) error {
	if outputJSON {
		return json.NewEncoder(out).Encode(result)
	}

	action := "complete"
	if cleanDryRun {
		action = "(dry run)"
	}
	fmt.Fprintf(out, "\nClean %s %s: %d removed, %s freed, %d skipped\n",
		label, action, result.Removed, formatSize(result.FreedBytes), result.Skipped)
	return nil
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
