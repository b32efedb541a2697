package style

import (
	"math"
	"strings"

	"subburn/internal/color"
)

const (
	// DefaultFontSize is the pixel size used when font_size is absent or
	// unparseable.
	DefaultFontSize = 40

	defaultStrokeWidth   = 2.0
	defaultShadow        = 2.0
	defaultGlowIntensity = 0.5
	glowBaseBlur         = 4.0
	glowIntensityBlur    = 6.0
	glowMinBorder        = 4.0
	glowBorderPad        = 4.0

	// Format-native flag values: -1 is on, 0 is off.
	flagOn  = -1
	flagOff = 0

	shadowColor = "rgba(0,0,0,0.5)"

	blackOutline = "&H00000000"

	minWeight   = 1
	maxWeight   = 1000
	maxFontSize = 4096
)

// Computed is the fully resolved renderer-facing style. It is comparable,
// and two segments with equal Computed values share one style definition.
type Computed struct {
	FontName  string `json:"font_name"`
	FontSize  int    `json:"font_size"`
	Weight    int    `json:"weight"`
	Bold      int    `json:"bold"`
	Italic    int    `json:"italic"`
	Underline int    `json:"underline"`

	// PrimaryColour is the fill. OutlineColour is the style definition's
	// outline field, which holds the background colour when a box is drawn.
	// StrokeColour is the real stroke, used by the outline variant.
	PrimaryColour string `json:"primary_colour"`
	OutlineColour string `json:"outline_colour"`
	BackColour    string `json:"back_colour"`
	StrokeColour  string `json:"stroke_colour"`
	ShadowColour  string `json:"shadow_colour"`
	GlowColour    string `json:"glow_colour"`
	GlowAlpha     string `json:"glow_alpha"`

	HasOutline    bool `json:"has_outline"`
	HasBackground bool `json:"has_background"`
	HasGlow       bool `json:"has_glow"`

	Outline    float64 `json:"outline"`
	Shadow     float64 `json:"shadow"`
	Spacing    float64 `json:"spacing"`
	BoxPadding int     `json:"box_padding"`
	GlowBlur   float64 `json:"glow_blur"`
	GlowBorder float64 `json:"glow_border"`
	Alignment  int     `json:"alignment"`
}

// Compute derives a Computed style from a merged spec and an effective
// scale (global scale times per-segment scale). It never fails: invalid
// fields fall back to their defaults.
func Compute(merged Spec, scale float64, fonts Fonts) Computed {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		scale = 1
	}

	opacity := deref(merged.Opacity, 1)
	if math.IsNaN(opacity) {
		opacity = 1
	}
	opacity = clamp(opacity, 0, 1)
	fontName, _ := fonts.Resolve(deref(merged.FontFamily, ""))

	weight := parseWeight(merged.FontWeight)
	bold := weight >= 600
	if merged.Bold != nil {
		bold = *merged.Bold
		switch {
		case bold && weight < 600:
			weight = 700
		case !bold && weight >= 600:
			weight = 400
		}
	}

	fill := deref(merged.Color, "")
	fillColor := color.White
	if strings.TrimSpace(fill) != "" {
		fillColor = color.Parse(fill)
	}

	// A glow without a stroke borrows the fill colour for its stroke;
	// without this the glow pass would have nothing to blur.
	glow := deref(merged.Glow, false)
	stroke := merged.StrokeColor
	if glow && stroke == nil {
		if strings.TrimSpace(fill) != "" {
			stroke = Ptr(fill)
		} else {
			stroke = Ptr("#FFFFFF")
		}
	}
	strokeValue := deref(stroke, "")
	hasOutline := !color.IsInvisible(strokeValue)

	background := deref(merged.BackgroundColor, "")
	hasBackground := !color.IsInvisible(background)

	c := Computed{
		FontName:      fontName,
		FontSize:      scaledFontSize(merged.FontSize, scale),
		Weight:        weight,
		Bold:          flag(bold),
		Italic:        flag(isItalic(deref(merged.FontStyle, ""))),
		Underline:     flag(deref(merged.Underline, false)),
		PrimaryColour: fillColor.WithOpacity(opacity).Packed(color.SchemeASS),
		ShadowColour:  color.Parse(shadowColor).WithOpacity(opacity).Packed(color.SchemeASS),
		HasOutline:    hasOutline,
		HasBackground: hasBackground,
		HasGlow:       glow,
		Spacing:       round1(deref(merged.LetterSpacing, 0) * scale),
		Alignment:     alignment(deref(merged.TextAlign, "")),
	}

	strokeWidth := deref(merged.StrokeWidth, defaultStrokeWidth)
	if strokeWidth < 0 || math.IsNaN(strokeWidth) {
		strokeWidth = 0
	}
	if hasOutline {
		c.StrokeColour = color.Parse(strokeValue).WithOpacity(opacity).Packed(color.SchemeASS)
		c.Outline = round1(strokeWidth * scale)
	}
	if deref(merged.Shadow, false) {
		c.Shadow = round1(defaultShadow * scale)
	}

	c.OutlineColour = c.StrokeColour
	c.BackColour = c.ShadowColour
	if hasBackground {
		bg := color.Parse(background).WithOpacity(opacity).Packed(color.SchemeASS)
		c.OutlineColour = bg
		c.BackColour = bg
		c.BoxPadding = max(2, int(math.Round(float64(c.FontSize)*0.2)))
	}
	if c.OutlineColour == "" {
		c.OutlineColour = color.Parse("#000000").WithOpacity(opacity).Packed(color.SchemeASS)
	}

	if glow {
		glowSource := strokeValue
		if color.IsInvisible(glowSource) {
			glowSource = fill
		}
		glowColor := color.White
		if strings.TrimSpace(glowSource) != "" {
			glowColor = color.Parse(glowSource)
		}
		glowColor = glowColor.WithOpacity(opacity)
		c.GlowColour = glowColor.Packed(color.SchemeASSTag)
		c.GlowAlpha = color.AlphaTag(glowColor.Alpha)
		intensity := clamp(deref(merged.GlowIntensity, defaultGlowIntensity), 0, 1)
		c.GlowBlur = round1((glowBaseBlur + glowIntensityBlur*intensity) * scale)
		c.GlowBorder = round1((math.Max(2*strokeWidth, glowMinBorder) + glowBorderPad) * scale)
	}

	return c
}

// BorderStyle is 3 (opaque box) when a background is drawn, otherwise 1.
func (c Computed) BorderStyle() int {
	if c.HasBackground {
		return 3
	}
	return 1
}

// NeedsOutlineVariant reports whether the style paints a box and a stroke,
// which requires a second style carrying the true stroke colour.
func (c Computed) NeedsOutlineVariant() bool {
	return c.HasBackground && c.HasOutline
}

// NeedsGlowVariant reports whether a glowing box style has no outline
// variant to paint its glow with. A box style cannot carry the glow because
// its border settings size the box.
func (c Computed) NeedsGlowVariant() bool {
	return c.HasGlow && c.HasBackground && !c.HasOutline
}

// OutlineVariant returns the companion style used to draw outlined text on
// top of the background box.
func (c Computed) OutlineVariant() Computed {
	v := c.withoutBox()
	v.OutlineColour = c.StrokeColour
	return v
}

// GlowVariant returns the companion style the glow pass of a box style
// without an outline is painted with.
func (c Computed) GlowVariant() Computed {
	v := c.withoutBox()
	v.OutlineColour = blackOutline
	return v
}

// withoutBox strips the box and glow settings, leaving a BorderStyle 1
// style.
func (c Computed) withoutBox() Computed {
	v := c
	v.HasBackground = false
	v.HasGlow = false
	v.GlowColour = ""
	v.GlowAlpha = ""
	v.GlowBlur = 0
	v.GlowBorder = 0
	v.BoxPadding = 0
	v.BackColour = c.ShadowColour
	return v
}

func parseWeight(v *Scalar) int {
	if v == nil {
		return 400
	}
	if n, ok := v.Float(); ok {
		if n <= 0 || math.IsNaN(n) {
			return 400
		}
		return int(clamp(n, minWeight, maxWeight))
	}
	switch strings.ToLower(strings.TrimSpace(string(*v))) {
	case "thin", "hairline":
		return 100
	case "extralight", "extra-light", "ultralight":
		return 200
	case "light", "lighter":
		return 300
	case "medium":
		return 500
	case "semibold", "semi-bold", "demibold", "demi-bold":
		return 600
	case "bold", "bolder":
		return 700
	case "extrabold", "extra-bold", "ultrabold":
		return 800
	case "black", "heavy":
		return 900
	}
	return 400
}

func scaledFontSize(v *Scalar, scale float64) int {
	size := float64(DefaultFontSize)
	if v != nil {
		if n, ok := v.Float(); ok && n > 0 && !math.IsInf(n, 0) {
			size = n
		}
	}
	return max(1, int(math.Round(math.Min(size*scale, maxFontSize))))
}

func isItalic(fontStyle string) bool {
	switch strings.ToLower(strings.TrimSpace(fontStyle)) {
	case "italic", "oblique":
		return true
	}
	return false
}

func alignment(textAlign string) int {
	switch strings.ToLower(strings.TrimSpace(textAlign)) {
	case "left", "start":
		return 1
	case "right", "end":
		return 3
	}
	return 2
}

func flag(on bool) int {
	if on {
		return flagOn
	}
	return flagOff
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
