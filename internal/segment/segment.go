// Package segment defines the timed text cues the compiler consumes.
package segment

import (
	"sort"

	"subburn/internal/style"
)

// Kind identifies the timeline track a segment came from.
type Kind string

const (
	KindSubtitle Kind = "subtitle"
	KindText     Kind = "text"
)

// Segment is one on-screen text cue. Times are seconds.
type Segment struct {
	Start    float64     `yaml:"start" json:"start"`
	End      float64     `yaml:"end" json:"end"`
	Text     string      `yaml:"text" json:"text"`
	Index    int         `yaml:"-" json:"index,omitempty"`
	Kind     Kind        `yaml:"kind,omitempty" json:"kind,omitempty"`
	Style    *style.Spec `yaml:"style,omitempty" json:"style,omitempty"`
	Position *Position   `yaml:"position,omitempty" json:"position,omitempty"`
}

// Position places a segment explicitly. X and Y are normalized (0.5 is the
// frame centre) or absolute pixels when greater than 1. Rotation is in
// degrees, clockwise positive.
type Position struct {
	X        float64  `yaml:"x" json:"x"`
	Y        float64  `yaml:"y" json:"y"`
	Scale    *float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
	Rotation *float64 `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// Resolution is the output frame size in pixels.
type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Portrait reports whether the frame is taller than it is wide.
func (r Resolution) Portrait() bool {
	return r.Height > r.Width
}

// Valid reports whether the segment has usable timing.
func (s Segment) Valid() bool {
	return s.Start < s.End && s.End > 0
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// ScaleFactor returns the per-segment scale, 1 when unset.
func (s Segment) ScaleFactor() float64 {
	if s.Position == nil || s.Position.Scale == nil || *s.Position.Scale < 0 {
		return 1
	}
	return *s.Position.Scale
}

// Sorted returns a copy of segs ordered by start time, ties kept in input
// order, with Index renumbered from 1. The input is not modified.
func Sorted(segs []Segment) []Segment {
	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	for i := range sorted {
		sorted[i].Index = i + 1
	}
	return sorted
}

// Filter splits segs into those with valid timing and those without. The
// compiler assumes valid input; loaders call Filter before compiling.
func Filter(segs []Segment) (kept, dropped []Segment) {
	for _, seg := range segs {
		if seg.Valid() {
			kept = append(kept, seg)
		} else {
			dropped = append(dropped, seg)
		}
	}
	return kept, dropped
}
