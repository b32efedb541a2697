package logx

import (
	"log/slog"

	"subburn/internal/compile"
	"subburn/internal/segment"
	"subburn/internal/style"
)

// Observer reports compiler events to a slog logger. Font substitution is
// a warning; the rest is debug output.
type Observer struct {
	Logger *slog.Logger
	// Source names the cue file being compiled.
	Source string
}

var _ compile.Observer = Observer{}

func (o Observer) FontSubstituted(index int, requested, used string) {
	o.Logger.Warn("font substituted",
		slog.String("source", o.Source),
		slog.Int("segment", index),
		slog.String("requested", requested),
		slog.String("used", used),
	)
}

func (o Observer) StyleRegistered(def style.Definition) {
	o.Logger.Debug("style registered",
		slog.String("source", o.Source),
		slog.String("style", def.Name),
		slog.String("font", def.Style.FontName),
		slog.Int("size", def.Style.FontSize),
		slog.Bool("variant", def.Variant),
	)
}

func (o Observer) SegmentCompiled(seg segment.Segment, events int) {
	o.Logger.Debug("segment compiled",
		slog.String("source", o.Source),
		slog.Int("segment", seg.Index),
		slog.String("kind", string(seg.Kind)),
		slog.Float64("start", seg.Start),
		slog.Float64("end", seg.End),
		slog.Int("events", events),
	)
}
