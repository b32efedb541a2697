// Package cuesheet loads timed text segments from job files (YAML or JSON)
// and from plain SRT and WebVTT subtitle files.
package cuesheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"subburn/internal/segment"
	"subburn/internal/style"
	"subburn/internal/timecode"
)

// Job is a parsed cue file. Fields other than Segments are optional
// per-job overrides of the project configuration.
type Job struct {
	Name       string
	Format     string
	Resolution *segment.Resolution
	Scale      *float64
	Style      *style.Spec
	Segments   []segment.Segment
}

// Options controls how entries are resolved.
type Options struct {
	// Presets resolves `preset:` references in job file entries.
	Presets map[string]style.Spec
	// Kind is assigned to segments that do not declare one.
	Kind segment.Kind
}

type rawJob struct {
	Format   string              `yaml:"format" json:"format"`
	Video    *segment.Resolution `yaml:"video" json:"video"`
	Scale    *float64            `yaml:"scale" json:"scale"`
	Style    *style.Spec         `yaml:"style" json:"style"`
	Segments []rawEntry          `yaml:"segments" json:"segments"`
}

type rawEntry struct {
	Start    *style.Scalar     `yaml:"start" json:"start"`
	End      *style.Scalar     `yaml:"end" json:"end"`
	Text     string            `yaml:"text" json:"text"`
	Kind     segment.Kind      `yaml:"kind" json:"kind"`
	Preset   string            `yaml:"preset" json:"preset"`
	Style    *style.Spec       `yaml:"style" json:"style"`
	Position *segment.Position `yaml:"position" json:"position"`
}

// Load reads a cue file, choosing the parser by extension.
func Load(path string, opts Options) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("read file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var job Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		job, err = ParseYAML(data, opts)
	case ".json":
		job, err = ParseJSON(data, opts)
	case ".srt":
		job.Segments, err = ParseSRT(data, opts.Kind)
	case ".vtt":
		job.Segments, err = ParseVTT(data, opts.Kind)
	default:
		return Job{}, fmt.Errorf("unsupported cue file %q", filepath.Base(path))
	}
	job.Name = name
	return job, err
}

// ParseYAML parses a YAML job file. Entries that fail validation are left
// out of the job and reported together as ValidationErrors.
func ParseYAML(data []byte, opts Options) (Job, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Job{}, errors.New("cue file is empty")
	}
	var raw rawJob
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Job{}, fmt.Errorf("parse YAML: %w", err)
	}
	return buildJob(raw, opts)
}

// ParseJSON parses a JSON job file with the same shape as the YAML form.
func ParseJSON(data []byte, opts Options) (Job, error) {
	var raw rawJob
	if err := json.Unmarshal(data, &raw); err != nil {
		return Job{}, fmt.Errorf("parse JSON: %w", err)
	}
	return buildJob(raw, opts)
}

func buildJob(raw rawJob, opts Options) (Job, error) {
	job := Job{
		Format:     strings.TrimSpace(raw.Format),
		Resolution: raw.Video,
		Scale:      raw.Scale,
		Style:      raw.Style,
	}
	if len(raw.Segments) == 0 {
		return job, errors.New("no segments found")
	}

	var errs ValidationErrors
	for i, entry := range raw.Segments {
		seg, entryErrs := parseEntry(entry, i+1, opts)
		if len(entryErrs) > 0 {
			errs = append(errs, entryErrs...)
			continue
		}
		job.Segments = append(job.Segments, seg)
	}

	if len(errs) > 0 {
		return job, errs
	}
	return job, nil
}

func parseEntry(entry rawEntry, index int, opts Options) (segment.Segment, []ValidationError) {
	var errs []ValidationError

	start, err := parseTime(entry.Start)
	if err != nil {
		errs = append(errs, ValidationError{Line: index, Field: "start", Message: err.Error()})
	}
	end, err := parseTime(entry.End)
	if err != nil {
		errs = append(errs, ValidationError{Line: index, Field: "end", Message: err.Error()})
	}
	if len(errs) == 0 {
		if msg := timingProblem(start, end); msg != "" {
			errs = append(errs, ValidationError{Line: index, Field: "end", Message: msg})
		}
	}

	spec := entry.Style
	if name := strings.TrimSpace(entry.Preset); name != "" {
		preset, ok := opts.Presets[name]
		if !ok {
			errs = append(errs, ValidationError{Line: index, Field: "preset", Message: fmt.Sprintf("unknown preset %q", name)})
		} else {
			merged := style.MergePtr(preset, entry.Style)
			spec = &merged
		}
	}

	if entry.Position != nil && entry.Position.Scale != nil && *entry.Position.Scale < 0 {
		errs = append(errs, ValidationError{Line: index, Field: "position.scale", Message: "must not be negative"})
	}

	kind := entry.Kind
	if kind == "" {
		kind = opts.Kind
	}

	return segment.Segment{
		Start:    start,
		End:      end,
		Text:     entry.Text,
		Kind:     kind,
		Style:    spec,
		Position: entry.Position,
	}, errs
}

func parseTime(v *style.Scalar) (float64, error) {
	if v == nil {
		return 0, errors.New("is required")
	}
	return timecode.Parse(string(*v))
}

// timingProblem describes why a cue cannot be compiled, or returns "".
func timingProblem(start, end float64) string {
	seg := segment.Segment{Start: start, End: end}
	if seg.Valid() {
		return ""
	}
	if end <= 0 {
		return "end must be after 0"
	}
	return fmt.Sprintf("end %s is not after start %s", timecode.FormatSRT(end), timecode.FormatSRT(start))
}
