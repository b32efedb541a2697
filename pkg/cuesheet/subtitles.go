package cuesheet

import (
	"errors"
	"strings"

	"subburn/internal/segment"
	"subburn/internal/timecode"
)

// block is a run of non-blank lines and the 1-based line it starts on.
type block struct {
	line  int
	lines []string
}

func splitBlocks(data []byte) []block {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	var (
		blocks []block
		cur    block
	)
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur.lines) > 0 {
				blocks = append(blocks, cur)
			}
			cur = block{}
			continue
		}
		if len(cur.lines) == 0 {
			cur.line = i + 1
		}
		cur.lines = append(cur.lines, line)
	}
	if len(cur.lines) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// ParseSRT reads SubRip cues. The numeric counter line is optional and
// ignored; segments are renumbered by the compiler.
func ParseSRT(data []byte, kind segment.Kind) ([]segment.Segment, error) {
	return parseCues(splitBlocks(data), kind, timecode.ParseSRT)
}

// ParseVTT reads WebVTT cues. The header, NOTE, STYLE and REGION blocks are
// skipped, as are cue identifiers and cue settings.
func ParseVTT(data []byte, kind segment.Kind) ([]segment.Segment, error) {
	blocks := splitBlocks(data)
	if len(blocks) == 0 || !strings.HasPrefix(strings.TrimSpace(blocks[0].lines[0]), "WEBVTT") {
		return nil, errors.New("missing WEBVTT header")
	}

	var cues []block
	for _, b := range blocks[1:] {
		first := strings.TrimSpace(b.lines[0])
		if first == "NOTE" || strings.HasPrefix(first, "NOTE ") || first == "STYLE" || first == "REGION" {
			continue
		}
		cues = append(cues, b)
	}
	return parseCues(cues, kind, timecode.ParseVTT)
}

func parseCues(blocks []block, kind segment.Kind, parse func(string) (float64, error)) ([]segment.Segment, error) {
	var (
		segs []segment.Segment
		errs ValidationErrors
	)
	for _, b := range blocks {
		timing := -1
		for i, line := range b.lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 || timing > 1 {
			errs = append(errs, ValidationError{Line: b.line, Message: "cue has no timing line"})
			continue
		}
		lineNo := b.line + timing

		startRaw, rest, _ := strings.Cut(b.lines[timing], "-->")
		// WebVTT cue settings follow the end time.
		endFields := strings.Fields(rest)
		if len(endFields) == 0 {
			errs = append(errs, ValidationError{Line: lineNo, Field: "end", Message: "is required"})
			continue
		}
		start, err := parse(startRaw)
		if err != nil {
			errs = append(errs, ValidationError{Line: lineNo, Field: "start", Message: err.Error()})
			continue
		}
		end, err := parse(endFields[0])
		if err != nil {
			errs = append(errs, ValidationError{Line: lineNo, Field: "end", Message: err.Error()})
			continue
		}
		if msg := timingProblem(start, end); msg != "" {
			errs = append(errs, ValidationError{Line: lineNo, Field: "end", Message: msg})
			continue
		}

		segs = append(segs, segment.Segment{
			Start: start,
			End:   end,
			Text:  strings.Join(b.lines[timing+1:], "\n"),
			Kind:  kind,
		})
	}

	if len(segs) == 0 && len(errs) == 0 {
		return nil, errors.New("no cues found")
	}
	if len(errs) > 0 {
		return segs, errs
	}
	return segs, nil
}
