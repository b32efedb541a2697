package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subburn/internal/config"
)

// ProjectPaths captures canonical locations for a subburn project.
type ProjectPaths struct {
	Root       string
	ConfigFile string
	CuesDir    string
	OutputDir  string
	LogsDir    string
	MetaDir    string
	StateFile  string
	LockFile   string
}

// configNames are tried in order; the first that exists wins.
var configNames = []string{"subburn.yaml", "subburn.yml", "subburn.toml"}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".subburn")
	return ProjectPaths{
		Root:       root,
		ConfigFile: findConfig(root),
		CuesDir:    filepath.Join(root, "cues"),
		OutputDir:  filepath.Join(root, "subtitles"),
		LogsDir:    filepath.Join(root, "logs"),
		MetaDir:    metaDir,
		StateFile:  filepath.Join(metaDir, "state.json"),
		LockFile:   filepath.Join(metaDir, "state.lock"),
	}
}

func findConfig(root string) string {
	for _, name := range configNames {
		candidate := filepath.Join(root, name)
		if ok, _ := FileExists(candidate); ok {
			return candidate
		}
	}
	return filepath.Join(root, configNames[0])
}

// ApplyConfig points OutputDir at the configured output directory.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if dir := strings.TrimSpace(cfg.Output.Dir); dir != "" {
		pp.OutputDir = resolveProjectPath(pp.Root, dir)
	}
	return pp
}

// OutputPath returns where the compiled document for a cue file goes.
func (p ProjectPaths) OutputPath(cfg config.Config, cuePath, ext string) string {
	return filepath.Join(p.OutputDir, cfg.OutputName(cuePath, ext))
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the cues/subtitles/logs hierarchy alongside the
// hidden .subburn metadata directory.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.CuesDir, p.OutputDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CueFiles lists cue files directly under CuesDir in lexical order.
func (p ProjectPaths) CueFiles() ([]string, error) {
	entries, err := os.ReadDir(p.CuesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cues directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json", ".srt", ".vtt":
			files = append(files, filepath.Join(p.CuesDir, entry.Name()))
		}
	}
	return files, nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
