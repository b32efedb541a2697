package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/logx"
	"subburn/internal/paths"
)

const exampleCueYAML = `# Each segment needs start and end (seconds or a timecode) and text.
# style overrides the project style; preset names an entry under presets.
segments:
  - start: 0
    end: 2.5
    text: Hello
  - start: "00:00:03.000"
    end: "00:00:05.500"
    text: |-
      Two lines
      of text
    style:
      glow: true
      color: "#FFD200"
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a subburn project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("subburn-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, effectiveLogLevel(config.Default()))
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("subburn init", slog.String("project", pp.Root))

	created := make([]string, 0, 2)

	if err := ensureConfig(pp, &created, logger); err != nil {
		return err
	}
	if err := ensureExampleCue(pp, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}

	return nil
}

func ensureConfig(pp paths.ProjectPaths, created *[]string, logger *slog.Logger) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		logger.Info("config exists", slog.String("path", pp.ConfigFile))
		return nil
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	logger.Info("created config", slog.String("path", pp.ConfigFile))
	*created = append(*created, filepath.Base(pp.ConfigFile))
	return nil
}

// ensureExampleCue seeds cues/ with a sample only when it has no cue files.
func ensureExampleCue(pp paths.ProjectPaths, created *[]string, logger *slog.Logger) error {
	existing, err := pp.CueFiles()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	cuePath := filepath.Join(pp.CuesDir, "example.yaml")
	if err := os.WriteFile(cuePath, []byte(exampleCueYAML), 0o644); err != nil {
		return fmt.Errorf("write example cue: %w", err)
	}
	logger.Info("created example cue", slog.String("path", cuePath))
	rel, err := filepath.Rel(pp.Root, cuePath)
	if err != nil {
		rel = cuePath
	}
	*created = append(*created, rel)
	return nil
}
