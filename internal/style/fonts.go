package style

import (
	"sort"
	"strings"
)

// DefaultFont replaces any family that is not on the allow-list.
const DefaultFont = "Arial"

// DefaultFonts is the static allow-list of families the renderer ships.
var DefaultFonts = []string{
	"Arial",
	"Arial Black",
	"Bebas Neue",
	"Comic Sans MS",
	"Courier New",
	"Georgia",
	"Helvetica",
	"Impact",
	"Inter",
	"Lato",
	"Montserrat",
	"Noto Sans",
	"Open Sans",
	"Oswald",
	"Poppins",
	"Roboto",
	"Tahoma",
	"Times New Roman",
	"Trebuchet MS",
	"Verdana",
}

var genericFamilies = map[string]bool{
	"serif":      true,
	"sans-serif": true,
	"monospace":  true,
	"cursive":    true,
	"fantasy":    true,
	"system-ui":  true,
}

var builtinFonts = indexFonts(DefaultFonts)

// Fonts is a font allow-list. The zero value allows DefaultFonts only.
type Fonts struct {
	extra map[string]string
}

// NewFonts extends the built-in allow-list with extra family names.
func NewFonts(extra ...string) Fonts {
	return Fonts{extra: indexFonts(extra)}
}

// Allowed reports whether a single family name is on the allow-list.
func (f Fonts) Allowed(family string) bool {
	_, ok := f.lookup(family)
	return ok
}

// Names returns the canonical names of every allowed family.
func (f Fonts) Names() []string {
	var extra []string
	for key, name := range f.extra {
		if _, ok := builtinFonts[key]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(append([]string(nil), DefaultFonts...), extra...)
}

// Resolve picks the first allowed family from a CSS family list such as
// `"Montserrat", Arial, sans-serif` and returns its canonical casing.
// substituted is true when the list named fonts but none were allowed.
// An empty list or one holding only generic families resolves to
// DefaultFont without being a substitution.
func (f Fonts) Resolve(families string) (name string, substituted bool) {
	named := false
	for _, part := range strings.Split(families, ",") {
		family := strings.Trim(strings.TrimSpace(part), `"'`)
		if family == "" {
			continue
		}
		if canonical, ok := f.lookup(family); ok {
			return canonical, false
		}
		if !genericFamilies[strings.ToLower(family)] {
			named = true
		}
	}
	return DefaultFont, named
}

func (f Fonts) lookup(family string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(family))
	if name, ok := builtinFonts[key]; ok {
		return name, true
	}
	if name, ok := f.extra[key]; ok {
		return name, true
	}
	return "", false
}

func indexFonts(names []string) map[string]string {
	index := make(map[string]string, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		index[strings.ToLower(name)] = name
	}
	return index
}
