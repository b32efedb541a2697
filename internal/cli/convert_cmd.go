package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"subburn/internal/batch"
	"subburn/internal/compile"
	"subburn/internal/config"
	"subburn/internal/segment"
	"subburn/internal/style"
	"subburn/internal/timecode"
	"subburn/pkg/cuesheet"
)

func newConvertCmd() *cobra.Command {
	var (
		width  int
		height int
		scale  float64
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between cue files and subtitle formats, choosing formats by extension",
		Long: "Reads a YAML/JSON cue file, SRT or WebVTT and writes SRT, WebVTT or ASS.\n" +
			"An output ending in .yaml or .yml writes an editable cue file instead.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			cfg := config.Default()
			cfg.ApplyDefaults()
			if width > 0 {
				cfg.Video.Width = width
			}
			if height > 0 {
				cfg.Video.Height = height
			}
			if scale > 0 {
				cfg.Scale = scale
			}

			job, err := cuesheet.Load(input, cuesheet.Options{Kind: segment.KindSubtitle})
			if err != nil {
				// On validation errors with partial data, still continue.
				var issues cuesheet.ValidationErrors
				if !errors.As(err, &issues) {
					return fmt.Errorf("convert %s: %w", input, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			var contents string
			switch strings.ToLower(filepath.Ext(output)) {
			case ".yaml", ".yml":
				data, err := marshalCueYAML(job.Segments)
				if err != nil {
					return err
				}
				contents = string(data)
			default:
				format, err := compile.FormatForPath(output)
				if err != nil {
					return err
				}
				res, err := batch.CompileJob(cfg, job, format, nil)
				if err != nil {
					return err
				}
				contents = res.Text
			}

			if dryRun {
				fmt.Fprint(cmd.OutOrStdout(), contents)
				return nil
			}
			if err := writeFile(output, contents); err != nil {
				return err
			}
			cmd.Printf("Converted %d segments → %s\n", len(job.Segments), output)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Frame width for ASS output (default video.width)")
	cmd.Flags().IntVar(&height, "height", 0, "Frame height for ASS output (default video.height)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Size multiplier for ASS output")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the converted document instead of writing it")

	return cmd
}

type cueYAMLEntry struct {
	Start    string            `yaml:"start"`
	End      string            `yaml:"end"`
	Text     string            `yaml:"text"`
	Kind     segment.Kind      `yaml:"kind,omitempty"`
	Style    *style.Spec       `yaml:"style,omitempty"`
	Position *segment.Position `yaml:"position,omitempty"`
}

// marshalCueYAML writes segments in the job file shape with readable
// timecodes. Subtitle is the loader's default kind, so it is omitted.
func marshalCueYAML(segs []segment.Segment) ([]byte, error) {
	doc := struct {
		Segments []cueYAMLEntry `yaml:"segments"`
	}{Segments: make([]cueYAMLEntry, 0, len(segs))}

	for _, seg := range segment.Sorted(segs) {
		kind := seg.Kind
		if kind == segment.KindSubtitle {
			kind = ""
		}
		doc.Segments = append(doc.Segments, cueYAMLEntry{
			Start:    timecode.FormatVTT(seg.Start),
			End:      timecode.FormatVTT(seg.End),
			Text:     seg.Text,
			Kind:     kind,
			Style:    seg.Style,
			Position: seg.Position,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal YAML: %w", err)
	}
	return data, nil
}
