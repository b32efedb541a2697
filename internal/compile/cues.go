package compile

import (
	"fmt"
	"strings"

	"subburn/internal/segment"
	"subburn/internal/timecode"
)

type cueFormatter struct {
	header string
	empty  string
	stamp  func(float64) string
}

var (
	srtCue = cueFormatter{stamp: timecode.FormatSRT}
	vttCue = cueFormatter{header: "WEBVTT\n\n", empty: "WEBVTT\n", stamp: timecode.FormatVTT}
)

// emitCues writes index, timestamp and text blocks separated by blank
// lines. Styling and placement do not apply.
func emitCues(segs []segment.Segment, opts Options, f cueFormatter) Result {
	if len(segs) == 0 {
		return Result{Text: f.empty}
	}
	blocks := make([]string, 0, len(segs))
	for _, seg := range segs {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			seg.Index, f.stamp(seg.Start), f.stamp(seg.End), plainText(seg.Text)))
		opts.Observer.SegmentCompiled(seg, 1)
	}
	return Result{
		Text:   f.header + strings.Join(blocks, "\n"),
		Events: len(segs),
	}
}
