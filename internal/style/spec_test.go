package style

import "testing"

func TestMergePrefersPresentSegmentFields(t *testing.T) {
	global := Spec{
		FontFamily:  Ptr("Roboto"),
		Bold:        Ptr(true),
		StrokeColor: Ptr("#000000"),
		Opacity:     Ptr(0.8),
	}
	segment := Spec{
		Bold:    Ptr(false),
		Opacity: Ptr(0.0),
		Color:   Ptr("#FF0000"),
	}

	merged := Merge(global, segment)

	if merged.Bold == nil || *merged.Bold {
		t.Fatalf("explicit false should override global bold, got %v", merged.Bold)
	}
	if merged.Opacity == nil || *merged.Opacity != 0 {
		t.Fatalf("explicit zero opacity should override, got %v", merged.Opacity)
	}
	if merged.FontFamily == nil || *merged.FontFamily != "Roboto" {
		t.Fatalf("absent segment field should fall through, got %v", merged.FontFamily)
	}
	if merged.Color == nil || *merged.Color != "#FF0000" {
		t.Fatalf("segment-only field should be kept, got %v", merged.Color)
	}
	if merged.Glow != nil {
		t.Fatalf("field absent on both sides should stay absent, got %v", *merged.Glow)
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	global := Spec{Color: Ptr("#FFFFFF")}
	merged := Merge(global, Spec{})
	*merged.Color = "#000000"
	if *global.Color != "#FFFFFF" {
		t.Fatalf("merge result aliased global spec")
	}
}

func TestMergePtrNilSegment(t *testing.T) {
	global := Spec{Underline: Ptr(true)}
	merged := MergePtr(global, nil)
	if merged.Underline == nil || !*merged.Underline {
		t.Fatalf("nil segment should yield global fields")
	}
}
