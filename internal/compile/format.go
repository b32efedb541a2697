package compile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the output document type.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatSRT, FormatVTT, FormatASS}

// ParseFormat normalizes a user-supplied format name. "ssa" is accepted as
// an alias for ass.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "."))) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	}
	return "", fmt.Errorf("unknown format %q (want srt, vtt or ass)", value)
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer format from %q: no extension", path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Styled reports whether the format carries style definitions.
func (f Format) Styled() bool {
	return f == FormatASS
}
