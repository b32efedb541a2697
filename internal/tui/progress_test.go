package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"subburn/internal/batch"
	"subburn/internal/state"
)

func update(t *testing.T, m BatchModel, msg tea.Msg) (BatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BatchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm, cmd
}

func TestNewBatchModelStartsPending(t *testing.T) {
	m := NewBatchModel("batch", []string{"/a/b/ep1.yaml", "/a/b/ep2.srt"})
	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.rows))
	}
	got := m.rows[0].cells(1)
	want := []string{"1", "ep1.yaml", "-", StatusPending, "-", "-", "-"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("cells = %v, want %v", got, want)
	}
	if c := m.Counts(); c.Pending != 2 || c.Finished() != 0 {
		t.Fatalf("Counts = %+v", c)
	}
}

func TestJobMessagesUpdateRows(t *testing.T) {
	cues := []string{"cues/ep1.yaml", "cues/ep2.srt", "cues/ep3.vtt"}
	m := NewBatchModel("batch", cues)

	m, _ = update(t, m, JobStartedMsg{Action: state.TargetAction{
		Target: state.Target{CuePath: cues[0], Format: "ass"},
		Action: state.ActionCompile,
		Reason: state.ReasonInputChanged,
	}})
	if row := m.rows[0]; row.status != StatusCompiling || row.reason != state.ReasonInputChanged || row.format != "ass" {
		t.Fatalf("started row = %+v", row)
	}

	for _, res := range []batch.Result{
		{Index: 1, CuePath: cues[0], Format: "ass", Reason: state.ReasonInputChanged, Events: 4, Styles: 2},
		{Index: 2, CuePath: cues[1], Format: "srt", Skipped: true, Reason: state.ReasonUpToDate},
		{Index: 3, CuePath: cues[2], Err: errors.New("boom")},
	} {
		m, _ = update(t, m, JobDoneMsg{Result: res})
	}

	want := [][]string{
		{"1", "ep1.yaml", "ass", StatusCompiled, state.ReasonInputChanged, "4", "2"},
		{"2", "ep2.srt", "srt", StatusSkipped, state.ReasonUpToDate, "-", "-"},
		{"3", "ep3.vtt", "-", StatusError, "boom", "-", "-"},
	}
	for i, w := range want {
		if got := m.rows[i].cells(i + 1); strings.Join(got, "|") != strings.Join(w, "|") {
			t.Errorf("row %d = %v, want %v", i, got, w)
		}
	}
	if c := m.Counts(); c != (Counts{Compiled: 1, Skipped: 1, Failed: 1}) {
		t.Errorf("Counts = %+v", c)
	}
}

func TestJobDoneMsgUnknownCue(t *testing.T) {
	m := NewBatchModel("batch", []string{"cues/ep1.yaml"})
	m, _ = update(t, m, JobDoneMsg{Result: batch.Result{Index: 9, CuePath: "cues/other.yaml"}})
	if m.rows[0].status != StatusPending {
		t.Fatalf("row changed: %+v", m.rows[0])
	}
}

func TestUpdateDoesNotAliasRows(t *testing.T) {
	before := NewBatchModel("batch", []string{"cues/ep1.yaml"})
	after, _ := update(t, before, JobDoneMsg{Result: batch.Result{Index: 1, CuePath: "cues/ep1.yaml"}})
	if before.rows[0].status != StatusPending || after.rows[0].status != StatusCompiled {
		t.Fatalf("before=%s after=%s", before.rows[0].status, after.rows[0].status)
	}
}

func TestWorkDoneMsgShowsSummary(t *testing.T) {
	m := NewBatchModel("batch", []string{"cues/a.yaml", "cues/b.yaml"})
	m, _ = update(t, m, JobDoneMsg{Result: batch.Result{Index: 1, CuePath: "cues/a.yaml"}})
	if view := m.View(); !strings.Contains(view, "Compiling 1/2...") {
		t.Fatalf("running view missing progress line:\n%s", view)
	}

	m, cmd := update(t, m, WorkDoneMsg{})
	if !m.Done() || cmd == nil {
		t.Fatal("expected Done() and a quit command after WorkDoneMsg")
	}
	view := m.View()
	if strings.Contains(view, "Compiling") || !strings.Contains(view, "1 compiled, 0 skipped, 0 failed") {
		t.Fatalf("finished view:\n%s", view)
	}
}

func TestErrorMsgReplacesTable(t *testing.T) {
	m := NewBatchModel("batch", []string{"cues/a.yaml"})
	m, cmd := update(t, m, ErrorMsg{Err: errors.New("state file locked")})
	if !m.Done() || cmd == nil {
		t.Fatal("expected Done() and a quit command after ErrorMsg")
	}
	if view := m.View(); view != "Error: state file locked\n" {
		t.Fatalf("View = %q", view)
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	m := NewBatchModel("batch", []string{"cues/a.yaml"})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !errors.Is(m.Err(), ErrInterrupted) || cmd == nil {
		t.Fatalf("Err = %v", m.Err())
	}
	if view := m.View(); !strings.Contains(view, "a.yaml") {
		t.Fatalf("interrupted view should keep the table:\n%s", view)
	}
}

func TestViewAlignsWideRunes(t *testing.T) {
	m := NewBatchModel("", []string{"cues/エピソード第一話のとても長い字幕ファイル.yaml", "cues/ep2.yaml"})
	m, _ = update(t, m, JobDoneMsg{Result: batch.Result{Index: 1, CuePath: m.rows[0].cue, Skipped: true, Reason: state.ReasonUpToDate}})

	lines := strings.Split(strings.TrimRight(m.View(), "\n"), "\n")
	var widths []int
	for _, line := range lines[:3] {
		widths = append(widths, runewidth.StringWidth(stripANSI(line)))
	}
	if widths[1] != widths[2] {
		t.Fatalf("row widths differ: %v\n%s", widths, strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[1], "...") {
		t.Fatalf("long cue name should be truncated: %q", lines[1])
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"字幕字幕字幕", 7, "字幕..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := TruncateWithEllipsis(tc.in, tc.max); got != tc.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestResultStatusAndReason(t *testing.T) {
	cases := []struct {
		res    batch.Result
		status string
		reason string
	}{
		{batch.Result{Reason: state.ReasonNew}, StatusCompiled, state.ReasonNew},
		{batch.Result{Skipped: true, Reason: state.ReasonUpToDate}, StatusSkipped, state.ReasonUpToDate},
		{batch.Result{Reason: state.ReasonForced, Err: batch.ErrDuplicateOutput}, StatusError, batch.ErrDuplicateOutput.Error()},
	}
	for _, tc := range cases {
		if got := ResultStatus(tc.res); got != tc.status {
			t.Errorf("ResultStatus(%+v) = %q, want %q", tc.res, got, tc.status)
		}
		if got := ResultReason(tc.res); got != tc.reason {
			t.Errorf("ResultReason(%+v) = %q, want %q", tc.res, got, tc.reason)
		}
	}
}

// stripANSI drops terminal escape sequences lipgloss may emit.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && !isLetter(s[i]) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
