package config

import (
	"strings"
	"testing"

	"subburn/internal/style"
)

func findResult(results []ValidationResult, level, fragment string) bool {
	for _, r := range results {
		if r.Level == level && strings.Contains(r.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateStrictDefaultsAreClean(t *testing.T) {
	results := Default().ValidateStrict(t.TempDir())
	if len(results) != 0 {
		t.Fatalf("expected no findings, got %+v", results)
	}
}

func TestValidateStrictErrors(t *testing.T) {
	cfg := Default()
	cfg.Video.Width = 0
	cfg.Output.Format = "docx"
	cfg.Scale = -1
	cfg.Batch.Concurrency = -2

	results := cfg.ValidateStrict("")
	if !HasErrors(results) {
		t.Fatal("expected errors")
	}
	for _, fragment := range []string{"video size", "output.format", "scale", "batch.concurrency"} {
		if !findResult(results, "error", fragment) {
			t.Fatalf("missing error mentioning %q in %+v", fragment, results)
		}
	}
}

func TestValidateStrictWarnings(t *testing.T) {
	cfg := Default()
	cfg.Style = style.Spec{
		Color:      style.Ptr("chartreuse-ish"),
		FontFamily: style.Ptr("Comic Papyrus"),
		Opacity:    style.Ptr(1.5),
	}
	cfg.Presets = map[string]style.Spec{
		"loud": {BackgroundColor: style.Ptr("#12")},
	}
	cfg.Logging.Level = "chatty"
	cfg.Output.Filename = "out.ass"

	results := cfg.ValidateStrict("/does/not/exist")
	if HasErrors(results) {
		t.Fatalf("warnings reported as errors: %+v", results)
	}
	for _, fragment := range []string{
		"style.color",
		"style.font_family",
		"style.opacity",
		"presets.loud.background_color",
		"logging.level",
		"$NAME",
		"cue directory",
	} {
		if !findResult(results, "warning", fragment) {
			t.Fatalf("missing warning mentioning %q in %+v", fragment, results)
		}
	}
}
