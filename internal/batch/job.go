package batch

import (
	"errors"
	"fmt"
	"strings"

	"subburn/internal/compile"
	"subburn/internal/config"
	"subburn/internal/segment"
	"subburn/internal/style"
	"subburn/pkg/cuesheet"
)

// ResolveFormat picks the output format for a job: an explicit override
// first, then the job's own format, then the project default.
func ResolveFormat(cfg config.Config, job cuesheet.Job, override string) (compile.Format, error) {
	for _, candidate := range []string{override, job.Format, cfg.Output.Format} {
		if strings.TrimSpace(candidate) != "" {
			return compile.ParseFormat(candidate)
		}
	}
	return "", errors.New("output format is required")
}

// CompileOptions layers a job's overrides on top of the project config.
func CompileOptions(cfg config.Config, job cuesheet.Job, format compile.Format) compile.Options {
	opts := compile.Options{
		Format:     format,
		Resolution: cfg.Resolution(),
		Scale:      cfg.Scale,
		Style:      style.MergePtr(cfg.Style, job.Style),
		Fonts:      cfg.FontList(),
	}
	if job.Resolution != nil {
		opts.Resolution = *job.Resolution
	}
	if job.Scale != nil {
		opts.Scale = *job.Scale
	}
	return opts
}

// CompileJob compiles a loaded job against the project config.
func CompileJob(cfg config.Config, job cuesheet.Job, format compile.Format, obs compile.Observer) (compile.Result, error) {
	opts := CompileOptions(cfg, job, format)
	opts.Observer = obs
	res, err := compile.Compile(job.Segments, opts)
	if err != nil {
		return compile.Result{}, fmt.Errorf("compile %s: %w", job.Name, err)
	}
	return res, nil
}

// LoadJob reads a cue file with the project's presets. Entry-level
// validation problems are returned as issues next to a usable job; any
// other failure is an error.
func LoadJob(cfg config.Config, cuePath string) (cuesheet.Job, cuesheet.ValidationErrors, error) {
	job, err := cuesheet.Load(cuePath, cuesheet.Options{Presets: cfg.Presets, Kind: segment.KindSubtitle})
	if err == nil {
		return job, nil, nil
	}
	var issues cuesheet.ValidationErrors
	if errors.As(err, &issues) {
		return job, issues, nil
	}
	return cuesheet.Job{}, nil, fmt.Errorf("load %s: %w", cuePath, err)
}
