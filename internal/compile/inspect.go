package compile

import (
	"errors"

	"subburn/internal/segment"
	"subburn/internal/style"
)

// Row describes how one segment is painted.
type Row struct {
	Index  int          `json:"index"`
	Kind   segment.Kind `json:"kind,omitempty"`
	Start  float64      `json:"start"`
	End    float64      `json:"end"`
	Style  string       `json:"style"`
	Layer  int          `json:"layer"`
	Passes []string     `json:"passes"`
	Text   string       `json:"text"`
}

// Report is the resolved style registry and layer table of an ASS
// compilation, used by diagnostics.
type Report struct {
	Styles []style.Definition `json:"styles"`
	Fonts  []string           `json:"fonts"`
	Rows   []Row              `json:"rows"`
}

// Inspect resolves segs the way Compile does for ASS output without
// rendering the document.
func Inspect(segs []segment.Segment, opts Options) (Report, error) {
	if opts.Resolution.Width <= 0 || opts.Resolution.Height <= 0 {
		return Report{}, errors.New("inspect requires a positive resolution")
	}
	opts = opts.withDefaults()

	registry, items := plan(segment.Sorted(segs), opts)
	report := Report{
		Styles: registry.Styles(),
		Fonts:  registry.Fonts(),
		Rows:   make([]Row, 0, len(items)),
	}
	for _, p := range items {
		report.Rows = append(report.Rows, Row{
			Index:  p.seg.Index,
			Kind:   p.seg.Kind,
			Start:  p.seg.Start,
			End:    p.seg.End,
			Style:  p.style,
			Layer:  p.base,
			Passes: PassNames(p.computed),
			Text:   p.seg.Text,
		})
	}
	return report, nil
}
