package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"subburn/internal/style"
)

func resolveExternalPath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// loadPresetFiles reads each file in PresetFiles as a map of named style
// presets and merges it into c.Presets. A name may be defined only once.
func (c *Config) loadPresetFiles(projectRoot string) error {
	if len(c.PresetFiles) == 0 {
		return nil
	}
	if c.Presets == nil {
		c.Presets = map[string]style.Spec{}
	}

	sources := make(map[string]string, len(c.Presets))
	for name := range c.Presets {
		sources[name] = "inline config"
	}

	for _, relPath := range c.PresetFiles {
		data, err := os.ReadFile(resolveExternalPath(projectRoot, relPath))
		if err != nil {
			return fmt.Errorf("load preset file %q: %w", relPath, err)
		}

		var presets map[string]style.Spec
		if err := yaml.Unmarshal(data, &presets); err != nil {
			return fmt.Errorf("parse preset file %q: %w", relPath, err)
		}

		for name, preset := range presets {
			if existing, ok := sources[name]; ok {
				return fmt.Errorf("preset %q defined in both %s and %q", name, existing, relPath)
			}
			sources[name] = relPath
			c.Presets[name] = preset
		}
	}
	return nil
}

// Preset returns the named style preset.
func (c Config) Preset(name string) (style.Spec, bool) {
	spec, ok := c.Presets[name]
	return spec, ok
}
