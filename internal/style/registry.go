package style

import (
	"fmt"
	"strings"
)

// Companion style suffixes.
const (
	OutlineSuffix = "_Outline"
	GlowSuffix    = "_Glow"
)

// Definition is one emitted style: a name bound to a computed style.
type Definition struct {
	Name    string   `json:"name"`
	Style   Computed `json:"style"`
	Variant bool     `json:"variant,omitempty"`
}

// Registry deduplicates computed styles for one compilation run. Styles
// are keyed by the Computed value itself, so equality is structural and
// independent of registration order.
type Registry struct {
	index map[Computed]string
	defs  []Definition
	seq   int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Computed]string)}
}

// Register returns the name of the style matching c, adding it (and its
// outline or glow companion, when needed) on first sight.
func (r *Registry) Register(c Computed) string {
	if name, ok := r.index[c]; ok {
		return name
	}
	r.seq++
	name := fmt.Sprintf("%s_%d", baseName(c), r.seq)
	r.index[c] = name
	r.defs = append(r.defs, Definition{Name: name, Style: c})
	if c.NeedsOutlineVariant() {
		r.defs = append(r.defs, Definition{
			Name:    OutlineVariantName(name),
			Style:   c.OutlineVariant(),
			Variant: true,
		})
	}
	if c.NeedsGlowVariant() {
		r.defs = append(r.defs, Definition{
			Name:    GlowVariantName(name),
			Style:   c.GlowVariant(),
			Variant: true,
		})
	}
	return name
}

// Styles returns every definition in registration order, each companion
// directly after its primary.
func (r *Registry) Styles() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Len returns the number of distinct computed styles, not counting
// companions.
func (r *Registry) Len() int {
	return len(r.index)
}

// Lookup finds a definition by name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	for _, def := range r.defs {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Fonts returns the distinct font names used by registered styles in
// registration order.
func (r *Registry) Fonts() []string {
	seen := make(map[string]bool)
	var fonts []string
	for _, def := range r.defs {
		if seen[def.Style.FontName] {
			continue
		}
		seen[def.Style.FontName] = true
		fonts = append(fonts, def.Style.FontName)
	}
	return fonts
}

// OutlineVariantName returns the outline companion name for primary.
func OutlineVariantName(primary string) string {
	return primary + OutlineSuffix
}

// GlowVariantName returns the glow companion name for primary.
func GlowVariantName(primary string) string {
	return primary + GlowSuffix
}

// GlowStyleName picks the style the glow pass of c is painted with. Box
// styles hand the glow to a BorderStyle 1 companion.
func GlowStyleName(c Computed, primary string) string {
	switch {
	case !c.HasBackground:
		return primary
	case c.NeedsOutlineVariant():
		return OutlineVariantName(primary)
	default:
		return GlowVariantName(primary)
	}
}

func baseName(c Computed) string {
	var b strings.Builder
	switch {
	case c.Weight >= 700 && c.Bold == flagOn:
		b.WriteString("Bold")
	case c.Bold == flagOn:
		b.WriteString("Semibold")
	default:
		b.WriteString("Regular")
	}
	if c.Italic == flagOn {
		b.WriteString("Italic")
	}
	if c.HasGlow {
		b.WriteString("Glow")
	}
	if c.HasBackground {
		b.WriteString("Box")
	}
	return b.String()
}
