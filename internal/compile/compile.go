// Package compile turns timed text segments into SRT, WebVTT or ASS
// documents. It is pure: no I/O, no shared state between calls.
package compile

import (
	"errors"
	"fmt"
	"math"

	"subburn/internal/segment"
	"subburn/internal/style"
)

// Options configures one compilation.
type Options struct {
	Format     Format
	Resolution segment.Resolution
	// Scale multiplies every size. Zero or invalid values mean 1.
	Scale float64
	// Style is the global style that segment styles override.
	Style    style.Spec
	Fonts    style.Fonts
	Observer Observer
}

// Result is a compiled document.
type Result struct {
	Text string `json:"document"`
	// Fonts lists the distinct families used by an ASS document so callers
	// can check availability before rendering. Empty for other formats.
	Fonts  []string `json:"fonts"`
	Styles int      `json:"styles"`
	Events int      `json:"events"`
}

// Compile renders segs in the requested format. Segments are re-sorted by
// start time and renumbered; callers filter invalid timing beforehand. The
// only errors are an unknown format and a non-positive resolution for ASS.
func Compile(segs []segment.Segment, opts Options) (Result, error) {
	opts = opts.withDefaults()
	sorted := segment.Sorted(segs)

	switch opts.Format {
	case FormatSRT:
		return emitCues(sorted, opts, srtCue), nil
	case FormatVTT:
		return emitCues(sorted, opts, vttCue), nil
	case FormatASS:
		if opts.Resolution.Width <= 0 || opts.Resolution.Height <= 0 {
			return Result{}, errors.New("ass output requires a positive resolution")
		}
		return emitASS(sorted, opts), nil
	case "":
		return Result{}, errors.New("output format is required")
	}
	return Result{}, fmt.Errorf("unknown format %q", opts.Format)
}

func (o Options) withDefaults() Options {
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	if o.Scale <= 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		o.Scale = 1
	}
	return o
}
