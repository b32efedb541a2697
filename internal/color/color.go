// Package color parses CSS-style colour strings and packs them into the
// colour notations the subtitle renderer understands.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Scheme selects a packed colour notation.
type Scheme int

const (
	// SchemeASS is the style-definition form &HAABBGGRR, where AA is
	// transparency (00 opaque, FF invisible).
	SchemeASS Scheme = iota
	// SchemeASSTag is the override-tag form &HBBGGRR& without alpha.
	SchemeASSTag
	// SchemeHex is #RRGGBBAA with conventional alpha, used for display.
	SchemeHex
)

// Color is an RGB triple with a conventional alpha in [0,1].
type Color struct {
	RGB   colorful.Color
	Alpha float64
}

// White is the fallback for anything that cannot be parsed.
var White = Color{RGB: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 1}

// Parse converts a colour string into a Color. Unparseable input yields
// opaque white so a bad value never blocks compilation.
func Parse(value string) Color {
	c, err := ParseStrict(value)
	if err != nil {
		return White
	}
	return c
}

// ParseStrict converts a colour string into a Color and reports why it
// could not when the notation is unsupported.
func ParseStrict(value string) (Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch {
	case value == "":
		return Color{}, fmt.Errorf("empty color")
	case value == "transparent":
		return Color{RGB: colorful.Color{}, Alpha: 0}, nil
	case strings.HasPrefix(value, "#"):
		return parseHex(value)
	case strings.HasPrefix(value, "rgba(") || strings.HasPrefix(value, "rgb("):
		return parseFunctional(value)
	}
	return Color{}, fmt.Errorf("unsupported color %q", value)
}

func parseHex(value string) (Color, error) {
	digits := value[1:]
	for _, r := range digits {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("invalid hex color %q", value)
		}
	}

	switch len(digits) {
	case 3, 6:
		rgb, err := colorful.Hex(value)
		if err != nil {
			return Color{}, fmt.Errorf("parse hex color %q: %w", value, err)
		}
		return Color{RGB: rgb, Alpha: 1}, nil
	case 8:
		rgb, err := colorful.Hex(value[:7])
		if err != nil {
			return Color{}, fmt.Errorf("parse hex color %q: %w", value, err)
		}
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse hex alpha %q: %w", value, err)
		}
		return Color{RGB: rgb, Alpha: float64(a) / 255}, nil
	}
	return Color{}, fmt.Errorf("invalid hex color length %q", value)
}

func parseFunctional(value string) (Color, error) {
	open := strings.IndexByte(value, '(')
	if !strings.HasSuffix(value, ")") {
		return Color{}, fmt.Errorf("unterminated color %q", value)
	}
	parts := strings.Split(value[open+1:len(value)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid channel count in %q", value)
	}

	channels := make([]uint8, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid channel in %q: %w", value, err)
		}
		channels[i] = uint8(clamp(math.Round(n), 0, 255))
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in %q: %w", value, err)
		}
		alpha = clamp(a, 0, 1)
	}

	return Color{
		RGB:   colorful.Color{R: float64(channels[0]) / 255, G: float64(channels[1]) / 255, B: float64(channels[2]) / 255},
		Alpha: alpha,
	}, nil
}

// ParseASS reads the style-definition form &HAABBGGRR back into a Color.
func ParseASS(value string) (Color, error) {
	hex := strings.TrimSuffix(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(value)), "&H"), "&")
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid ASS colour %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid ASS colour %q", value)
	}
	t, b, g, r := uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)
	return Color{
		RGB:   colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		Alpha: 1 - float64(t)/255,
	}, nil
}

// CompositeOpacity multiplies a colour's alpha by an opacity multiplier.
func CompositeOpacity(alpha, opacity float64) float64 {
	return clamp(alpha*opacity, 0, 1)
}

// WithOpacity returns c with its alpha composited against opacity.
func (c Color) WithOpacity(opacity float64) Color {
	c.Alpha = CompositeOpacity(c.Alpha, opacity)
	return c
}

// Bytes returns the 8-bit red, green and blue channels.
func (c Color) Bytes() (uint8, uint8, uint8) {
	return c.RGB.Clamped().RGB255()
}

// Packed renders the colour in the given scheme.
func (c Color) Packed(scheme Scheme) string {
	r, g, b := c.Bytes()
	switch scheme {
	case SchemeASSTag:
		return fmt.Sprintf("&H%02X%02X%02X&", b, g, r)
	case SchemeHex:
		return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, uint8(math.Round(clamp(c.Alpha, 0, 1)*255)))
	default:
		return fmt.Sprintf("&H%02X%02X%02X%02X", transparency(c.Alpha), b, g, r)
	}
}

// AlphaTag renders a conventional alpha as the &HAA& override-tag value.
func AlphaTag(alpha float64) string {
	return fmt.Sprintf("&H%02X&", transparency(alpha))
}

// transparency inverts alpha into the renderer's 0=opaque byte. math.Round
// rounds half away from zero, which the renderer's output depends on.
func transparency(alpha float64) uint8 {
	return uint8(math.Round((1 - clamp(alpha, 0, 1)) * 255))
}

// IsInvisible reports whether a colour string paints nothing: absent,
// "transparent", or any notation whose alpha is exactly zero. Unparseable
// strings are visible because they fall back to white.
func IsInvisible(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	c, err := ParseStrict(value)
	if err != nil {
		return false
	}
	return c.Alpha == 0
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
