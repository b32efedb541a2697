package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"subburn/internal/config"
	"subburn/internal/segment"
	"subburn/internal/style"
	"subburn/pkg/cuesheet"
)

// globalConfigInput is the canonical structure hashed for config changes
// that affect every compiled document.
type globalConfigInput struct {
	Video    config.VideoConfig `json:"video"`
	Format   string             `json:"format"`
	Filename string             `json:"filename"`
	Style    style.Spec         `json:"style"`
	Scale    float64            `json:"scale"`
	Fonts    []string           `json:"fonts"`
	Presets  []presetEntry      `json:"presets"`
}

// presetEntry captures a single preset for deterministic ordering.
type presetEntry struct {
	Name string     `json:"name"`
	Spec style.Spec `json:"spec"`
}

// jobInput is the canonical structure hashed for per-job changes.
type jobInput struct {
	Format     string              `json:"format"`
	Resolution *segment.Resolution `json:"resolution"`
	Scale      *float64            `json:"scale"`
	Style      *style.Spec         `json:"style"`
	Segments   []segment.Segment   `json:"segments"`
}

// GlobalConfigHash returns a deterministic hash of the configuration
// sections that change compiled output.
func GlobalConfigHash(cfg config.Config) string {
	var presets []presetEntry
	for name, spec := range cfg.Presets {
		presets = append(presets, presetEntry{Name: name, Spec: spec})
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})

	fonts := append([]string(nil), cfg.Fonts...)
	sort.Strings(fonts)

	return hashJSON(globalConfigInput{
		Video:    cfg.Video,
		Format:   cfg.Output.Format,
		Filename: cfg.Output.Filename,
		Style:    cfg.Style,
		Scale:    cfg.Scale,
		Fonts:    fonts,
		Presets:  presets,
	})
}

// JobInputHash returns a deterministic hash of everything in a cue file
// that reaches the compiler. Presets are already merged into segment
// styles by the loader.
func JobInputHash(job cuesheet.Job, format string) string {
	return hashJSON(jobInput{
		Format:     format,
		Resolution: job.Resolution,
		Scale:      job.Scale,
		Style:      job.Style,
		Segments:   segment.Sorted(job.Segments),
	})
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Should never happen with known struct types.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
