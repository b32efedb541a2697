package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subburn/internal/color"
	"subburn/internal/compile"
	"subburn/internal/style"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs every check against the config. Errors make the
// config unusable; warnings describe settings the compiler will replace
// with a default.
func (c Config) ValidateStrict(cuesDir string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateOutput()...)
	results = append(results, c.validateStyle("style", c.Style)...)
	results = append(results, c.validatePresets()...)
	results = append(results, c.validateRuntime()...)
	results = append(results, validateCuesDir(cuesDir)...)
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func (c Config) validateVideo() []ValidationResult {
	if c.Video.Width > 0 && c.Video.Height > 0 {
		return nil
	}
	return []ValidationResult{{
		Level:   "error",
		Message: fmt.Sprintf("video size %dx%d must be positive", c.Video.Width, c.Video.Height),
	}}
}

func (c Config) validateOutput() []ValidationResult {
	var results []ValidationResult
	if _, err := compile.ParseFormat(c.Output.Format); err != nil {
		results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("output.format: %v", err)})
	}
	if !strings.Contains(c.Output.Filename, "$NAME") {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("output.filename %q has no $NAME token; batch outputs will overwrite each other", c.Output.Filename),
		})
	}
	return results
}

func (c Config) validateStyle(where string, spec style.Spec) []ValidationResult {
	var results []ValidationResult
	colors := []struct {
		field string
		value *string
	}{
		{"color", spec.Color},
		{"stroke_color", spec.StrokeColor},
		{"background_color", spec.BackgroundColor},
	}
	for _, col := range colors {
		if col.value == nil {
			continue
		}
		if _, err := color.ParseStrict(*col.value); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("%s.%s: %v; white will be used", where, col.field, err),
			})
		}
	}
	if spec.FontFamily != nil {
		if name, substituted := c.FontList().Resolve(*spec.FontFamily); substituted {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("%s.font_family: %q is not on the font allow-list; %s will be used", where, *spec.FontFamily, name),
			})
		}
	}
	if spec.Opacity != nil && (*spec.Opacity < 0 || *spec.Opacity > 1) {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("%s.opacity %v is outside [0,1] and will be clamped", where, *spec.Opacity),
		})
	}
	return results
}

func (c Config) validatePresets() []ValidationResult {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ValidationResult
	for _, name := range names {
		results = append(results, c.validateStyle(fmt.Sprintf("presets.%s", name), c.Presets[name])...)
	}
	return results
}

func (c Config) validateRuntime() []ValidationResult {
	var results []ValidationResult
	if c.Scale < 0 {
		results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("scale %v must not be negative", c.Scale)})
	}
	if c.Batch.Concurrency < 0 {
		results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("batch.concurrency %d must not be negative", c.Batch.Concurrency)})
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("logging.level %q is unknown; info will be used", c.Logging.Level),
		})
	}
	return results
}

func validateCuesDir(dir string) []ValidationResult {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("cue directory %q not found", filepath.Base(dir)),
		}}
	}
	return nil
}
