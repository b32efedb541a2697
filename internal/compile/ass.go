package compile

import (
	"fmt"
	"strconv"
	"strings"

	"subburn/internal/layers"
	"subburn/internal/placement"
	"subburn/internal/segment"
	"subburn/internal/style"
	"subburn/internal/timecode"
)

const (
	styleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	eventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

	sideMargin = 10
)

// paintPass is one optional rendering pass of a segment. Passes run in
// table order, each taking the next layer above the segment's base.
type paintPass struct {
	name     string
	when     func(style.Computed) bool
	styleFor func(c style.Computed, primary string) string
	tags     func(style.Computed) string
}

var paintPasses = []paintPass{
	{
		name:     "glow",
		when:     func(c style.Computed) bool { return c.HasGlow },
		styleFor: style.GlowStyleName,
		tags: func(c style.Computed) string {
			return fmt.Sprintf(`\bord%s\blur%s\3c%s\3a%s\shad0`, num(c.GlowBorder), num(c.GlowBlur), c.GlowColour, c.GlowAlpha)
		},
	},
	{
		name: "box",
		when: func(c style.Computed) bool { return c.HasBackground },
		tags: func(c style.Computed) string {
			return fmt.Sprintf(`\xbord%d\ybord0`, c.BoxPadding)
		},
	},
	{
		name:     "outline",
		when:     style.Computed.NeedsOutlineVariant,
		styleFor: func(_ style.Computed, primary string) string { return style.OutlineVariantName(primary) },
	},
	{
		name: "text",
		when: func(c style.Computed) bool { return !c.HasBackground },
	},
}

// event is one Dialogue line.
type event struct {
	layer int
	start float64
	end   float64
	style string
	tags  string
	text  string
}

func (e event) String() string {
	text := e.text
	if e.tags != "" {
		text = "{" + e.tags + "}" + text
	}
	return fmt.Sprintf("Dialogue: %d,%s,%s,%s,,0,0,0,,%s",
		e.layer, timecode.FormatASS(e.start), timecode.FormatASS(e.end), e.style, text)
}

// planned is a segment with its style and layer resolved.
type planned struct {
	seg      segment.Segment
	computed style.Computed
	style    string
	base     int
	text     string
	place    placement.Placement
}

// plan resolves styles, layers and placement for sorted segments.
func plan(segs []segment.Segment, opts Options) (*style.Registry, []planned) {
	registry := style.NewRegistry()

	intervals := make([]layers.Interval, len(segs))
	for i, seg := range segs {
		intervals[i] = layers.Interval{Start: seg.Start, End: seg.End}
	}
	bases := layers.Assign(intervals)

	out := make([]planned, 0, len(segs))
	for i, seg := range segs {
		merged := style.MergePtr(opts.Style, seg.Style)
		requested := ""
		if merged.FontFamily != nil {
			requested = *merged.FontFamily
		}
		if used, substituted := opts.Fonts.Resolve(requested); substituted {
			opts.Observer.FontSubstituted(seg.Index, requested, used)
		}

		computed := style.Compute(merged, opts.Scale*seg.ScaleFactor(), opts.Fonts)
		known := registry.Len()
		name := registry.Register(computed)
		if registry.Len() > known {
			notifyRegistered(registry, name, opts.Observer)
		}

		transform := ""
		if merged.TextTransform != nil {
			transform = *merged.TextTransform
		}
		out = append(out, planned{
			seg:      seg,
			computed: computed,
			style:    name,
			base:     bases[i],
			text:     assText(seg.Text, transform),
			place:    placement.Resolve(seg.Position, opts.Resolution),
		})
	}
	return registry, out
}

// expand turns a planned segment into its Dialogue events.
func (p planned) expand() []event {
	var events []event
	layer := p.base
	for _, pass := range paintPasses {
		if !pass.when(p.computed) {
			continue
		}
		styleName := p.style
		if pass.styleFor != nil {
			styleName = pass.styleFor(p.computed, p.style)
		}
		tags := p.place.Tags
		if pass.tags != nil {
			tags += pass.tags(p.computed)
		}
		events = append(events, event{
			layer: layer,
			start: p.seg.Start,
			end:   p.seg.End,
			style: styleName,
			tags:  tags,
			text:  p.text,
		})
		layer++
	}
	return events
}

// PassNames lists the paint passes a computed style expands into.
func PassNames(c style.Computed) []string {
	var names []string
	for _, pass := range paintPasses {
		if pass.when(c) {
			names = append(names, pass.name)
		}
	}
	return names
}

func emitASS(segs []segment.Segment, opts Options) Result {
	registry, items := plan(segs, opts)

	var events []event
	for _, p := range items {
		expanded := p.expand()
		events = append(events, expanded...)
		opts.Observer.SegmentCompiled(p.seg, len(expanded))
	}

	var b strings.Builder
	writeScriptInfo(&b, opts.Resolution)
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString(styleFormat + "\n")
	margin := placement.BottomMargin(opts.Resolution)
	for _, def := range registry.Styles() {
		b.WriteString(styleLine(def, margin) + "\n")
	}
	b.WriteString("\n[Events]\n")
	b.WriteString(eventFormat + "\n")
	for _, ev := range events {
		b.WriteString(ev.String() + "\n")
	}

	return Result{
		Text:   b.String(),
		Fonts:  registry.Fonts(),
		Styles: registry.Len(),
		Events: len(events),
	}
}

func notifyRegistered(registry *style.Registry, name string, obs Observer) {
	if def, ok := registry.Lookup(name); ok {
		obs.StyleRegistered(def)
	}
	for _, companion := range []string{style.OutlineVariantName(name), style.GlowVariantName(name)} {
		if def, ok := registry.Lookup(companion); ok {
			obs.StyleRegistered(def)
		}
	}
}

func writeScriptInfo(b *strings.Builder, res segment.Resolution) {
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(b, "PlayResX: %d\n", res.Width)
	fmt.Fprintf(b, "PlayResY: %d\n", res.Height)
	b.WriteString("WrapStyle: 0\n")
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("YCbCr Matrix: None\n")
}

// styleLine renders a style definition. Box styles use the outline width
// field as box padding.
func styleLine(def style.Definition, marginV int) string {
	c := def.Style
	outline := c.Outline
	if c.BorderStyle() == 3 {
		outline = float64(c.BoxPadding)
	}
	fields := []string{
		def.Name,
		c.FontName,
		strconv.Itoa(c.FontSize),
		c.PrimaryColour,
		c.PrimaryColour,
		c.OutlineColour,
		c.BackColour,
		strconv.Itoa(c.Bold),
		strconv.Itoa(c.Italic),
		strconv.Itoa(c.Underline),
		"0",
		"100",
		"100",
		num(c.Spacing),
		"0",
		strconv.Itoa(c.BorderStyle()),
		num(outline),
		num(c.Shadow),
		strconv.Itoa(c.Alignment),
		strconv.Itoa(sideMargin),
		strconv.Itoa(sideMargin),
		strconv.Itoa(marginV),
		"1",
	}
	return "Style: " + strings.Join(fields, ",")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
