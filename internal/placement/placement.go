// Package placement maps segment positions onto output-frame coordinates
// and the override tags that anchor and rotate an event.
package placement

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"subburn/internal/segment"
)

const (
	landscapeMargin = 0.05
	portraitMargin  = 0.10
)

// Placement is the resolved anchor for one segment.
type Placement struct {
	// Explicit is false when the segment had no position and the style's
	// bottom-centre alignment applies.
	Explicit bool
	X        int
	Y        int
	Rotation float64
	Scale    float64
	// Tags holds override tags without the surrounding braces.
	Tags string
}

// ToAbsolute converts v to a pixel offset along an axis of the given extent.
// Values in [0,1] are fractions of the extent; anything else is already a
// pixel value and is only rounded.
func ToAbsolute(v float64, extent int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= 0 && v <= 1 {
		return int(math.Round(v * float64(extent)))
	}
	return int(math.Round(v))
}

// BottomMargin is the vertical margin for default bottom placement. Portrait
// frames use a wider margin to stay clear of platform overlays.
func BottomMargin(res segment.Resolution) int {
	fraction := landscapeMargin
	if res.Portrait() {
		fraction = portraitMargin
	}
	return int(math.Round(float64(res.Height) * fraction))
}

// Resolve computes the placement of a segment. A nil position keeps the
// style's default anchor.
func Resolve(pos *segment.Position, res segment.Resolution) Placement {
	if pos == nil {
		return Placement{Scale: 1}
	}
	p := Placement{
		Explicit: true,
		X:        ToAbsolute(pos.X, res.Width),
		Y:        ToAbsolute(pos.Y, res.Height),
		Scale:    1,
	}
	if pos.Scale != nil && *pos.Scale >= 0 {
		p.Scale = *pos.Scale
	}

	var tags strings.Builder
	// Centre alignment makes \pos the anchor for translation and rotation.
	fmt.Fprintf(&tags, `\an5\pos(%d,%d)`, p.X, p.Y)
	if pos.Rotation != nil && *pos.Rotation != 0 && !math.IsNaN(*pos.Rotation) {
		p.Rotation = *pos.Rotation
		tags.WriteString(`\frz`)
		tags.WriteString(formatDegrees(assRotation(p.Rotation)))
	}
	p.Tags = tags.String()
	return p
}

// assRotation converts the editor's clockwise-positive degrees to the
// counter-clockwise-positive \frz convention. It is the only place the
// sign flips.
func assRotation(deg float64) float64 {
	return -deg
}

func formatDegrees(deg float64) string {
	deg = math.Round(deg*100) / 100
	return strconv.FormatFloat(deg, 'f', -1, 64)
}
