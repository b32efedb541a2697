package compile

import (
	"strings"
	"testing"

	"subburn/internal/segment"
	"subburn/internal/style"
)

func TestTransformText(t *testing.T) {
	cases := []struct {
		text      string
		transform string
		want      string
	}{
		{"hello World", "uppercase", "HELLO WORLD"},
		{"Hello World", "lowercase", "hello world"},
		{"hello WORLD", "capitalize", "Hello WORLD"},
		{"hello", "none", "hello"},
		{"hello", "", "hello"},
	}
	for _, tc := range cases {
		if got := transformText(tc.text, tc.transform); got != tc.want {
			t.Fatalf("transformText(%q, %q) = %q; want %q", tc.text, tc.transform, got, tc.want)
		}
	}
}

func TestASSText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a\\b: it's", `a\\b\: it\'s`},
		{"one\ntwo", `one\Ntwo`},
		{"one\r\ntwo\n\n", `one\Ntwo`},
		{"trailing\n", `trailing`},
		{"plain", `plain`},
	}
	for _, tc := range cases {
		if got := assText(tc.in, ""); got != tc.want {
			t.Fatalf("assText(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"one\r\ntwo\n\n", "one\ntwo"},
		{"a\n\nb", "a\nb"},
		{"\n \na\n\t\nb", "a\nb"},
		{"x --> y", "x -> y"},
		{"x ---> y", "x -> y"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := plainText(tc.in); got != tc.want {
			t.Fatalf("plainText(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompileCueTextCannotSplitCue(t *testing.T) {
	segs := []segment.Segment{{Start: 0, End: 1, Text: "a\n\n2\n00:00:05,000 --> 00:00:06,000\nb"}}
	for _, format := range []Format{FormatSRT, FormatVTT} {
		res, err := Compile(segs, Options{Format: format})
		if err != nil {
			t.Fatalf("Compile(%s): %v", format, err)
		}
		if strings.Count(res.Text, "-->") != 1 {
			t.Fatalf("%s cue text introduced a timing line:\n%s", format, res.Text)
		}
		body := strings.TrimPrefix(res.Text, "WEBVTT\n\n")
		if strings.Contains(strings.TrimRight(body, "\n"), "\n\n") {
			t.Fatalf("%s cue text introduced a blank line:\n%s", format, res.Text)
		}
	}
}

func TestPassNames(t *testing.T) {
	cases := []struct {
		computed style.Computed
		want     string
	}{
		{style.Computed{}, "text"},
		{style.Computed{HasGlow: true}, "glow,text"},
		{style.Computed{HasBackground: true}, "box"},
		{style.Computed{HasBackground: true, HasOutline: true}, "box,outline"},
		{style.Computed{HasGlow: true, HasBackground: true, HasOutline: true}, "glow,box,outline"},
	}
	for _, tc := range cases {
		if got := strings.Join(PassNames(tc.computed), ","); got != tc.want {
			t.Fatalf("PassNames(%+v) = %q; want %q", tc.computed, got, tc.want)
		}
	}
}

func TestInspect(t *testing.T) {
	segs := []segment.Segment{
		{Start: 2, End: 6, Text: "B", Kind: segment.KindText},
		{Start: 0, End: 5, Text: "A", Kind: segment.KindSubtitle},
	}
	report, err := Inspect(segs, assOptions())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(report.Rows) != 2 || len(report.Styles) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Rows[0].Text != "A" || report.Rows[0].Layer != 0 || report.Rows[1].Layer != 3 {
		t.Fatalf("rows = %+v", report.Rows)
	}
	if _, err := Inspect(segs, Options{}); err == nil {
		t.Fatal("expected error without resolution")
	}
}
