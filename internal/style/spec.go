// Package style resolves per-segment text styles into renderer-ready
// computed styles and deduplicates them into named style definitions.
package style

// Spec is a sparse set of style fields. A nil field is absent; any non-nil
// field, including false, 0 and "", is an explicit setting.
type Spec struct {
	FontFamily      *string  `yaml:"font_family,omitempty" json:"font_family,omitempty"`
	FontWeight      *Scalar  `yaml:"font_weight,omitempty" json:"font_weight,omitempty"`
	Bold            *bool    `yaml:"bold,omitempty" json:"bold,omitempty"`
	FontStyle       *string  `yaml:"font_style,omitempty" json:"font_style,omitempty"`
	Underline       *bool    `yaml:"underline,omitempty" json:"underline,omitempty"`
	TextTransform   *string  `yaml:"text_transform,omitempty" json:"text_transform,omitempty"`
	Color           *string  `yaml:"color,omitempty" json:"color,omitempty"`
	StrokeColor     *string  `yaml:"stroke_color,omitempty" json:"stroke_color,omitempty"`
	StrokeWidth     *float64 `yaml:"stroke_width,omitempty" json:"stroke_width,omitempty"`
	BackgroundColor *string  `yaml:"background_color,omitempty" json:"background_color,omitempty"`
	Shadow          *bool    `yaml:"shadow,omitempty" json:"shadow,omitempty"`
	Glow            *bool    `yaml:"glow,omitempty" json:"glow,omitempty"`
	GlowIntensity   *float64 `yaml:"glow_intensity,omitempty" json:"glow_intensity,omitempty"`
	Opacity         *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	LetterSpacing   *float64 `yaml:"letter_spacing,omitempty" json:"letter_spacing,omitempty"`
	LineHeight      *float64 `yaml:"line_height,omitempty" json:"line_height,omitempty"`
	TextAlign       *string  `yaml:"text_align,omitempty" json:"text_align,omitempty"`
	FontSize        *Scalar  `yaml:"font_size,omitempty" json:"font_size,omitempty"`
}

// Merge overlays segment on global. A field set in segment wins even when
// it holds a zero value; absent fields fall through to global. The result
// never aliases either input.
func Merge(global, segment Spec) Spec {
	return Spec{
		FontFamily:      prefer(segment.FontFamily, global.FontFamily),
		FontWeight:      prefer(segment.FontWeight, global.FontWeight),
		Bold:            prefer(segment.Bold, global.Bold),
		FontStyle:       prefer(segment.FontStyle, global.FontStyle),
		Underline:       prefer(segment.Underline, global.Underline),
		TextTransform:   prefer(segment.TextTransform, global.TextTransform),
		Color:           prefer(segment.Color, global.Color),
		StrokeColor:     prefer(segment.StrokeColor, global.StrokeColor),
		StrokeWidth:     prefer(segment.StrokeWidth, global.StrokeWidth),
		BackgroundColor: prefer(segment.BackgroundColor, global.BackgroundColor),
		Shadow:          prefer(segment.Shadow, global.Shadow),
		Glow:            prefer(segment.Glow, global.Glow),
		GlowIntensity:   prefer(segment.GlowIntensity, global.GlowIntensity),
		Opacity:         prefer(segment.Opacity, global.Opacity),
		LetterSpacing:   prefer(segment.LetterSpacing, global.LetterSpacing),
		LineHeight:      prefer(segment.LineHeight, global.LineHeight),
		TextAlign:       prefer(segment.TextAlign, global.TextAlign),
		FontSize:        prefer(segment.FontSize, global.FontSize),
	}
}

// MergePtr is Merge for an optional segment spec.
func MergePtr(global Spec, segment *Spec) Spec {
	if segment == nil {
		return Merge(global, Spec{})
	}
	return Merge(global, *segment)
}

func prefer[T any](override, base *T) *T {
	if override != nil {
		v := *override
		return &v
	}
	if base != nil {
		v := *base
		return &v
	}
	return nil
}

// Ptr returns a pointer to v for building specs in code.
func Ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
