// Package layers assigns paint layers to time-overlapping segments.
package layers

// Span is the number of physical layers one segment may occupy: glow,
// background box and outlined text.
const Span = 3

// Interval is a half-open time range [Start, End) in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Overlaps reports whether two half-open intervals share any instant.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Assign returns a base layer for each interval. Intervals must already be
// sorted by start. Each interval stacks Span layers above the highest base
// among earlier intervals it overlaps, so the reserved ranges
// [base, base+Span) of simultaneous intervals never intersect.
//
// The scan is quadratic, which is fine for subtitle counts per export.
func Assign(intervals []Interval) []int {
	bases := make([]int, len(intervals))
	for i, cur := range intervals {
		base := 0
		conflict := false
		for j := 0; j < i; j++ {
			if !Overlaps(cur, intervals[j]) {
				continue
			}
			if !conflict || bases[j] > base {
				base = bases[j]
			}
			conflict = true
		}
		if conflict {
			base += Span
		}
		bases[i] = base
	}
	return bases
}
