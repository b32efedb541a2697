package timecode

import (
	"math"
	"testing"
)

func TestFormatters(t *testing.T) {
	cases := []struct {
		seconds float64
		srt     string
		vtt     string
		ass     string
	}{
		{0, "00:00:00,000", "00:00:00.000", "0:00:00.00"},
		{1.0, "00:00:01,000", "00:00:01.000", "0:00:01.00"},
		{3.5, "00:00:03,500", "00:00:03.500", "0:00:03.50"},
		{1.001, "00:00:01,001", "00:00:01.001", "0:00:01.00"},
		{59.9999, "00:00:59,999", "00:00:59.999", "0:00:59.99"},
		{3725.678, "01:02:05,678", "01:02:05.678", "1:02:05.67"},
		{36000.25, "10:00:00,250", "10:00:00.250", "10:00:00.25"},
	}

	for _, tc := range cases {
		if got := FormatSRT(tc.seconds); got != tc.srt {
			t.Fatalf("FormatSRT(%v) = %q; want %q", tc.seconds, got, tc.srt)
		}
		if got := FormatVTT(tc.seconds); got != tc.vtt {
			t.Fatalf("FormatVTT(%v) = %q; want %q", tc.seconds, got, tc.vtt)
		}
		if got := FormatASS(tc.seconds); got != tc.ass {
			t.Fatalf("FormatASS(%v) = %q; want %q", tc.seconds, got, tc.ass)
		}
	}
}

func TestFormatClampsInvalidInput(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		if got := FormatSRT(v); got != "00:00:00,000" {
			t.Fatalf("FormatSRT(%v) = %q; want zero timestamp", v, got)
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]float64{
		"00:00:01,000": 1,
		"00:00:03.500": 3.5,
		"01:02:05,678": 3725.678,
		"0:00:01.50":   1.5,
		"02:03.250":    123.25,
		"12.5":         12.5,
		"7":            7,
	}
	for input, want := range cases {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", input, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("Parse(%q) = %v; want %v", input, got, want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "00:61:00,000", "1:2:3:4", "00:00:aa,000", "-3"} {
		if _, err := Parse(input); err == nil {
			t.Fatalf("Parse(%q) expected error", input)
		}
	}
	if _, err := ParseSRT("01:00.500"); err == nil {
		t.Fatal("ParseSRT should require hours")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0.5, 1.25, 61.125, 7322.002} {
		got, err := ParseSRT(FormatSRT(v))
		if err != nil {
			t.Fatalf("round trip %v: %v", v, err)
		}
		if math.Abs(got-v) > 1e-9 {
			t.Fatalf("round trip %v = %v", v, got)
		}
	}
}
