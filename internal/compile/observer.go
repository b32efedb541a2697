package compile

import (
	"subburn/internal/segment"
	"subburn/internal/style"
)

// Observer receives engine events. The engine never logs; callers that
// want diagnostics supply an Observer.
type Observer interface {
	// FontSubstituted fires when none of a segment's requested families are
	// on the allow-list.
	FontSubstituted(index int, requested, used string)
	// StyleRegistered fires once per emitted style definition.
	StyleRegistered(def style.Definition)
	// SegmentCompiled fires after a segment has been expanded into events.
	SegmentCompiled(seg segment.Segment, events int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FontSubstituted(int, string, string) {}
func (NopObserver) StyleRegistered(style.Definition) {}
func (NopObserver) SegmentCompiled(segment.Segment, int) {}
