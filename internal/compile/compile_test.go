package compile

import (
	"strings"
	"testing"

	"subburn/internal/segment"
	"subburn/internal/style"
)

var fullHD = segment.Resolution{Width: 1920, Height: 1080}

func assOptions() Options {
	return Options{Format: FormatASS, Resolution: fullHD}
}

func TestCompileSRT(t *testing.T) {
	res, err := Compile([]segment.Segment{{Start: 1, End: 3.5, Text: "Hi"}}, Options{Format: FormatSRT})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:03,500\nHi\n"
	if res.Text != want {
		t.Fatalf("SRT = %q; want %q", res.Text, want)
	}
	if res.Events != 1 || len(res.Fonts) != 0 {
		t.Fatalf("Result = %+v", res)
	}
}

func TestCompileSRTSortsAndRenumbers(t *testing.T) {
	segs := []segment.Segment{
		{Start: 4, End: 5, Text: "b"},
		{Start: 1, End: 2, Text: "a\r\n"},
	}
	res, err := Compile(segs, Options{Format: FormatSRT})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\na\n\n2\n00:00:04,000 --> 00:00:05,000\nb\n"
	if res.Text != want {
		t.Fatalf("SRT = %q; want %q", res.Text, want)
	}
	if segs[0].Text != "b" {
		t.Fatal("input order modified")
	}
}

func TestCompileVTT(t *testing.T) {
	res, err := Compile([]segment.Segment{{Start: 1, End: 3.5, Text: "Hi"}}, Options{Format: FormatVTT})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:03.500\nHi\n"
	if res.Text != want {
		t.Fatalf("VTT = %q; want %q", res.Text, want)
	}
}

func TestCompileEmpty(t *testing.T) {
	cases := map[Format]string{
		FormatSRT: "",
		FormatVTT: "WEBVTT\n",
	}
	for format, want := range cases {
		res, err := Compile(nil, Options{Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if res.Text != want {
			t.Fatalf("%s empty = %q; want %q", format, res.Text, want)
		}
	}

	res, err := Compile(nil, assOptions())
	if err != nil {
		t.Fatalf("ass: %v", err)
	}
	if !strings.Contains(res.Text, "[Events]") || strings.Contains(res.Text, "Dialogue:") {
		t.Fatalf("empty ASS document = %q", res.Text)
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile(nil, Options{Format: "docx"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := Compile(nil, Options{}); err == nil {
		t.Fatal("expected error for missing format")
	}
	if _, err := Compile(nil, Options{Format: FormatASS}); err == nil {
		t.Fatal("expected error for zero resolution")
	}
}

func TestCompileASSPlain(t *testing.T) {
	res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, assOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, want := range []string{
		"[Script Info]\n",
		"PlayResX: 1920\nPlayResY: 1080\n",
		"Style: Regular_1,Arial,40,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,0,0,2,10,10,54,1\n",
		"Dialogue: 0,0:00:00.00,0:00:02.00,Regular_1,,0,0,0,,Hi\n",
	} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("document missing %q:\n%s", want, res.Text)
		}
	}
	if res.Styles != 1 || res.Events != 1 {
		t.Fatalf("Result counts = %d styles, %d events", res.Styles, res.Events)
	}
	if len(res.Fonts) != 1 || res.Fonts[0] != "Arial" {
		t.Fatalf("Fonts = %v", res.Fonts)
	}
}

func TestCompileASSGlowBorrowsFill(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{Glow: style.Ptr(true), Color: style.Ptr("#00FF00")}
	res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, want := range []string{
		"Style: RegularGlow_1,Arial,40,&H0000FF00,&H0000FF00,&H0000FF00,",
		`Dialogue: 0,0:00:00.00,0:00:02.00,RegularGlow_1,,0,0,0,,{\bord8\blur7\3c&H00FF00&\3a&H00&\shad0}Hi` + "\n",
		"Dialogue: 1,0:00:00.00,0:00:02.00,RegularGlow_1,,0,0,0,,Hi\n",
	} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("document missing %q:\n%s", want, res.Text)
		}
	}
	if res.Events != 2 {
		t.Fatalf("Events = %d; want 2", res.Events)
	}
}

func TestCompileASSBoxWithOutline(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{
		BackgroundColor: style.Ptr("#000000"),
		StrokeColor:     style.Ptr("#FF0000"),
		StrokeWidth:     style.Ptr(3.0),
	}
	res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, want := range []string{
		"Style: RegularBox_1,Arial,40,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,3,8,0,2,10,10,54,1\n",
		"Style: RegularBox_1_Outline,Arial,40,&H00FFFFFF,&H00FFFFFF,&H000000FF,&H80000000,0,0,0,0,100,100,0,0,1,3,0,2,10,10,54,1\n",
		`Dialogue: 0,0:00:00.00,0:00:02.00,RegularBox_1,,0,0,0,,{\xbord8\ybord0}Hi` + "\n",
		"Dialogue: 1,0:00:00.00,0:00:02.00,RegularBox_1_Outline,,0,0,0,,Hi\n",
	} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("document missing %q:\n%s", want, res.Text)
		}
	}
	if res.Styles != 1 {
		t.Fatalf("Styles = %d; outline variants are not counted", res.Styles)
	}
}

func TestCompileASSBoxOnly(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{BackgroundColor: style.Ptr("#000000")}
	res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Events != 1 || strings.Contains(res.Text, "_Outline") {
		t.Fatalf("box-only segment should emit one event:\n%s", res.Text)
	}
}

func TestCompileASSGlowBoxOutlineUsesThreeLayers(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{
		Glow:            style.Ptr(true),
		BackgroundColor: style.Ptr("#000000"),
		StrokeColor:     style.Ptr("#FF0000"),
	}
	segs := []segment.Segment{
		{Start: 0, End: 5, Text: "A"},
		{Start: 2, End: 6, Text: "B"},
	}
	res, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Events != 6 {
		t.Fatalf("Events = %d; want 6", res.Events)
	}
	for _, want := range []string{
		"Dialogue: 2,0:00:00.00,0:00:05.00,RegularGlowBox_1_Outline,",
		"Dialogue: 3,0:00:02.00,0:00:06.00,RegularGlowBox_1_Outline,",
		"Dialogue: 4,0:00:02.00,0:00:06.00,RegularGlowBox_1,",
		"Dialogue: 5,0:00:02.00,0:00:06.00,RegularGlowBox_1_Outline,",
	} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("document missing %q:\n%s", want, res.Text)
		}
	}
}

// borderStyles maps each Style line's name to its BorderStyle field.
func borderStyles(t *testing.T, doc string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, line := range strings.Split(doc, "\n") {
		fields, ok := strings.CutPrefix(line, "Style: ")
		if !ok {
			continue
		}
		parts := strings.Split(fields, ",")
		if len(parts) < 16 {
			t.Fatalf("short style line %q", line)
		}
		out[parts[0]] = parts[15]
	}
	return out
}

func TestCompileASSGlowNeverUsesBoxStyle(t *testing.T) {
	tests := []struct {
		name      string
		spec      style.Spec
		wantStyle string
	}{
		{"plain", style.Spec{Glow: style.Ptr(true)}, "RegularGlow_1"},
		{"box with stroke", style.Spec{
			Glow:            style.Ptr(true),
			BackgroundColor: style.Ptr("#000000"),
		}, "RegularGlowBox_1_Outline"},
		{"box without stroke", style.Spec{
			Glow:            style.Ptr(true),
			BackgroundColor: style.Ptr("#000000"),
			StrokeColor:     style.Ptr("transparent"),
		}, "RegularGlowBox_1_Glow"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := assOptions()
			opts.Style = tc.spec
			res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, opts)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			borders := borderStyles(t, res.Text)
			var glowLines int
			for _, line := range strings.Split(res.Text, "\n") {
				if !strings.HasPrefix(line, "Dialogue: ") || !strings.Contains(line, `\blur`) {
					continue
				}
				glowLines++
				name := strings.Split(line, ",")[3]
				if name != tc.wantStyle {
					t.Errorf("glow painted with %q; want %q", name, tc.wantStyle)
				}
				border, ok := borders[name]
				if !ok {
					t.Fatalf("glow style %q is not defined:\n%s", name, res.Text)
				}
				if border == "3" {
					t.Errorf("glow style %q is a box style", name)
				}
			}
			if glowLines != 1 {
				t.Fatalf("glow lines = %d; want 1:\n%s", glowLines, res.Text)
			}
		})
	}
}

func TestCompileASSGlowCarriesAlpha(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{Glow: style.Ptr(true), StrokeColor: style.Ptr("rgba(255,0,0,0.5)")}
	res, err := Compile([]segment.Segment{{Start: 0, End: 2, Text: "Hi"}}, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(res.Text, `\3c&H0000FF&\3a&H80&\shad0}`) {
		t.Fatalf("glow tags lost the stroke alpha:\n%s", res.Text)
	}
}

func TestCompileASSOverlapLayers(t *testing.T) {
	segs := []segment.Segment{
		{Start: 2, End: 6, Text: "B"},
		{Start: 0, End: 5, Text: "A"},
	}
	res, err := Compile(segs, assOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, want := range []string{
		"Dialogue: 0,0:00:00.00,0:00:05.00,Regular_1,,0,0,0,,A\n",
		"Dialogue: 3,0:00:02.00,0:00:06.00,Regular_1,,0,0,0,,B\n",
	} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("document missing %q:\n%s", want, res.Text)
		}
	}
}

func TestCompileASSPositionAndRotation(t *testing.T) {
	rot := 10.0
	segs := []segment.Segment{
		{Start: 0, End: 1, Text: "Hi", Position: &segment.Position{X: 0.1, Y: 0.9, Rotation: &rot}},
	}
	res, err := Compile(segs, assOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := `,,0,0,0,,{\an5\pos(192,972)\frz-10}Hi`
	if !strings.Contains(res.Text, want) {
		t.Fatalf("document missing %q:\n%s", want, res.Text)
	}
}

func TestCompileASSSegmentScale(t *testing.T) {
	scale := 1.5
	segs := []segment.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b", Position: &segment.Position{X: 0.5, Y: 0.5, Scale: &scale}},
	}
	opts := assOptions()
	opts.Scale = 2
	res, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(res.Text, "Style: Regular_1,Arial,80,") || !strings.Contains(res.Text, "Style: Regular_2,Arial,120,") {
		t.Fatalf("scaled styles missing:\n%s", res.Text)
	}
}

func TestCompileASSTextHandling(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{TextTransform: style.Ptr("uppercase")}
	segs := []segment.Segment{{Start: 0, End: 1, Text: "it's 10:30\nnow\n"}}
	res, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := `,,0,0,0,,IT\'S 10\:30\NNOW` + "\n"
	if !strings.Contains(res.Text, want) {
		t.Fatalf("document missing %q:\n%s", want, res.Text)
	}
}

func TestCompileASSSegmentOverrideDisablesOutline(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{StrokeColor: style.Ptr("#000000")}
	segs := []segment.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b", Style: &style.Spec{StrokeColor: style.Ptr("transparent")}},
	}
	res, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Styles != 2 {
		t.Fatalf("Styles = %d; want 2", res.Styles)
	}
	if !strings.Contains(res.Text, "Style: Regular_2,Arial,40,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,0,") {
		t.Fatalf("override style should have no outline:\n%s", res.Text)
	}
}

func TestCompileDeterministic(t *testing.T) {
	opts := assOptions()
	opts.Style = style.Spec{Glow: style.Ptr(true)}
	segs := []segment.Segment{
		{Start: 3, End: 4, Text: "c", Style: &style.Spec{Bold: style.Ptr(true)}},
		{Start: 0, End: 5, Text: "a"},
		{Start: 1, End: 2, Text: "b", Style: &style.Spec{BackgroundColor: style.Ptr("#00000080")}},
	}
	first, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(segs, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if first.Text != second.Text {
		t.Fatal("output differs between runs")
	}
}

type recorder struct {
	substituted []string
	registered  []string
	events      []int
}

func (r *recorder) FontSubstituted(index int, requested, used string) {
	r.substituted = append(r.substituted, requested+"->"+used)
}

func (r *recorder) StyleRegistered(def style.Definition) {
	r.registered = append(r.registered, def.Name)
}

func (r *recorder) SegmentCompiled(_ segment.Segment, events int) {
	r.events = append(r.events, events)
}

func TestCompileNotifiesObserver(t *testing.T) {
	rec := &recorder{}
	opts := assOptions()
	opts.Observer = rec
	opts.Style = style.Spec{FontFamily: style.Ptr("Comic Papyrus")}
	segs := []segment.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b", Style: &style.Spec{
			BackgroundColor: style.Ptr("#000000"),
			StrokeColor:     style.Ptr("#FFFFFF"),
		}},
	}
	if _, err := Compile(segs, opts); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(rec.substituted) != 2 || rec.substituted[0] != "Comic Papyrus->Arial" {
		t.Fatalf("substitutions = %v", rec.substituted)
	}
	wantStyles := []string{"Regular_1", "RegularBox_2", "RegularBox_2_Outline"}
	if strings.Join(rec.registered, ",") != strings.Join(wantStyles, ",") {
		t.Fatalf("registered = %v; want %v", rec.registered, wantStyles)
	}
	if len(rec.events) != 2 || rec.events[0] != 1 || rec.events[1] != 2 {
		t.Fatalf("events = %v", rec.events)
	}
}
