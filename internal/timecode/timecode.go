// Package timecode converts fractional seconds to and from the timestamp
// notations used by the supported subtitle formats.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floorEpsilon absorbs binary representation error (1.001*1000 is
// 1000.9999999999999) before truncating to whole units. It is one
// millionth of a unit, far below any visible precision.
const floorEpsilon = 1e-6

// FormatSRT renders seconds as HH:MM:SS,mmm.
func FormatSRT(seconds float64) string {
	h, m, s, ms := split(seconds, 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatVTT renders seconds as HH:MM:SS.mmm.
func FormatVTT(seconds float64) string {
	h, m, s, ms := split(seconds, 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// FormatASS renders seconds as H:MM:SS.cc. Hours are not zero padded.
func FormatASS(seconds float64) string {
	h, m, s, cs := split(seconds, 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// split floors seconds to an integer count of 1/unitsPerSecond and breaks it
// into hour, minute, second and sub-second parts. Flooring a single integer
// total means sub-second digits can never round up into the next second.
func split(seconds float64, unitsPerSecond int64) (int64, int64, int64, int64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds*float64(unitsPerSecond) + floorEpsilon))
	frac := total % unitsPerSecond
	whole := total / unitsPerSecond
	return whole / 3600, (whole % 3600) / 60, whole % 60, frac
}

// ParseSRT parses HH:MM:SS,mmm. A dot separator is tolerated because
// real-world files mix them.
func ParseSRT(value string) (float64, error) {
	return parseClock(value, 3)
}

// ParseVTT parses HH:MM:SS.mmm and the short MM:SS.mmm form.
func ParseVTT(value string) (float64, error) {
	return parseClock(value, 2)
}

// ParseASS parses H:MM:SS.cc.
func ParseASS(value string) (float64, error) {
	return parseClock(value, 3)
}

// Parse accepts any of the three timestamp notations, or a bare number of
// seconds such as "12.5".
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if !strings.Contains(value, ":") {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds < 0 || math.IsInf(seconds, 0) {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		return seconds, nil
	}
	return parseClock(value, 2)
}

// parseClock parses [H:]MM:SS[.,]fraction. minFields is the minimum number
// of colon separated fields the notation requires.
func parseClock(value string, minFields int) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	fields := strings.Split(value, ":")
	if len(fields) < minFields || len(fields) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	secPart := strings.ReplaceAll(fields[len(fields)-1], ",", ".")
	whole, frac, _ := strings.Cut(secPart, ".")

	var hours, minutes int
	var err error
	if len(fields) == 3 {
		if hours, err = atoiDigits(fields[0]); err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		if minutes, err = atoiDigits(fields[1]); err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
	} else {
		if minutes, err = atoiDigits(fields[0]); err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
	}
	secs, err := atoiDigits(whole)
	if err != nil || minutes > 59 || secs > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	fraction := 0.0
	if frac != "" {
		n, err := atoiDigits(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		fraction = float64(n) / math.Pow10(len(frac))
	}

	return float64(hours*3600+minutes*60+secs) + fraction, nil
}

func atoiDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}
