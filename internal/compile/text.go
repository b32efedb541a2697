package compile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	assEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	newlines   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// transformText applies a CSS text-transform value.
func transformText(text, transform string) string {
	switch strings.ToLower(strings.TrimSpace(transform)) {
	case "uppercase":
		return cases.Upper(language.Und).String(text)
	case "lowercase":
		return cases.Lower(language.Und).String(text)
	case "capitalize":
		// Capitalize only touches word initials, like CSS.
		return cases.Title(language.Und, cases.NoLower).String(text)
	}
	return text
}

// assText prepares segment text for a Dialogue line: transform, escape,
// then convert newlines to \N with trailing breaks dropped.
func assText(text, transform string) string {
	text = assEscaper.Replace(transformText(text, transform))
	text = strings.TrimRight(newlines.Replace(text), "\n")
	return strings.ReplaceAll(text, "\n", `\N`)
}

// plainText prepares segment text for an SRT or WebVTT cue. A blank line
// ends a cue and a "-->" starts a timing line, so blank lines are dropped
// and the arrow is shortened.
func plainText(text string) string {
	lines := strings.Split(newlines.Replace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for strings.Contains(line, "-->") {
			line = strings.ReplaceAll(line, "-->", "->")
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
