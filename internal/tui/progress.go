package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"subburn/internal/batch"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

// column is a table column; width is in terminal cells.
type column struct {
	header string
	width  int
}

var batchColumns = []column{
	{"#", 3},
	{"CUE", 24},
	{"FORMAT", 6},
	{"STATUS", 9},
	{"REASON", 30},
	{"EVENTS", 6},
	{"STYLES", 6},
}

// jobRow is the live state of one cue file.
type jobRow struct {
	cue    string
	format string
	status string
	// reason is the change-detection reason, or the error text once the
	// file has failed.
	reason string
	events int
	styles int
}

func (r jobRow) finished() bool {
	switch r.status {
	case StatusCompiled, StatusSkipped, StatusError:
		return true
	}
	return false
}

func (r jobRow) cells(n int) []string {
	events, styles := "-", "-"
	if r.status == StatusCompiled {
		events, styles = strconv.Itoa(r.events), strconv.Itoa(r.styles)
	}
	return []string{
		strconv.Itoa(n),
		filepath.Base(r.cue),
		NonEmptyOrDash(r.format),
		r.status,
		NonEmptyOrDash(r.reason),
		events,
		styles,
	}
}

// Counts tallies rows by outcome.
type Counts struct {
	Compiled int
	Skipped  int
	Failed   int
	Pending  int
}

// Finished is the number of rows with a final outcome.
func (c Counts) Finished() int {
	return c.Compiled + c.Skipped + c.Failed
}

// BatchModel is a bubbletea model rendering one row per cue file of a batch
// run.
type BatchModel struct {
	title string
	rows  []jobRow
	// byCue maps a cue path to its first row. Started jobs are matched by
	// path; finished jobs by their result index.
	byCue map[string]int
	done  bool
	err   error
	tick  int
}

// NewBatchModel builds a model with one pending row per cue file.
func NewBatchModel(title string, cuePaths []string) BatchModel {
	m := BatchModel{
		title: title,
		rows:  make([]jobRow, len(cuePaths)),
		byCue: make(map[string]int, len(cuePaths)),
	}
	for i, cue := range cuePaths {
		m.rows[i] = jobRow{cue: cue, status: StatusPending}
		if _, seen := m.byCue[cue]; !seen {
			m.byCue[cue] = i
		}
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m BatchModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case JobStartedMsg:
		if i, ok := m.byCue[msg.Action.Target.CuePath]; ok {
			row := m.rows[i]
			row.status = StatusCompiling
			row.format = msg.Action.Target.Format
			row.reason = msg.Action.Reason
			m.rows = replaceRow(m.rows, i, row)
		}
		return m, nil

	case JobDoneMsg:
		m.applyResult(msg.Result)
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			m.err = ErrInterrupted
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *BatchModel) applyResult(res batch.Result) {
	i := res.Index - 1
	if i < 0 || i >= len(m.rows) || m.rows[i].cue != res.CuePath {
		var ok bool
		if i, ok = m.byCue[res.CuePath]; !ok {
			return
		}
	}
	m.rows = replaceRow(m.rows, i, jobRow{
		cue:    res.CuePath,
		format: res.Format,
		status: ResultStatus(res),
		reason: ResultReason(res),
		events: res.Events,
		styles: res.Styles,
	})
}

// replaceRow copies rows before writing so models handed out by Update
// never share row storage.
func replaceRow(rows []jobRow, i int, row jobRow) []jobRow {
	out := append([]jobRow(nil), rows...)
	out[i] = row
	return out
}

// View satisfies the tea.Model interface.
func (m BatchModel) View() string {
	if m.done && m.err != nil && m.err != ErrInterrupted {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	headers := make([]string, len(batchColumns))
	for i, col := range batchColumns {
		headers[i] = HeaderStyle.Render(cell(col.header, col.width))
	}
	b.WriteString(strings.Join(headers, "  "))
	b.WriteByte('\n')

	for n, row := range m.rows {
		values := row.cells(n + 1)
		parts := make([]string, len(batchColumns))
		for i, col := range batchColumns {
			parts[i] = cell(values[i], col.width)
			if col.header == "STATUS" {
				parts[i] = StatusStyle(row.status).Render(parts[i])
			}
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteByte('\n')
	}

	counts := m.Counts()
	if !m.done {
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s Compiling %d/%d...\n", spinner, counts.Finished(), len(m.rows))
		return b.String()
	}
	b.WriteByte('\n')
	b.WriteString(SummaryStyle.Render(fmt.Sprintf("%d compiled, %d skipped, %d failed", counts.Compiled, counts.Skipped, counts.Failed)))
	b.WriteByte('\n')
	return b.String()
}

// Counts tallies the rows by status. Compiling rows count as pending.
func (m BatchModel) Counts() Counts {
	var c Counts
	for _, row := range m.rows {
		switch row.status {
		case StatusCompiled:
			c.Compiled++
		case StatusSkipped:
			c.Skipped++
		case StatusError:
			c.Failed++
		default:
			c.Pending++
		}
	}
	return c
}

// Done returns whether the model has finished (work done or error).
func (m BatchModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m BatchModel) Err() error {
	return m.err
}

// ResultStatus names the outcome of a finished cue file.
func ResultStatus(res batch.Result) string {
	switch {
	case res.Err != nil:
		return StatusError
	case res.Skipped:
		return StatusSkipped
	default:
		return StatusCompiled
	}
}

// ResultReason is the error text of a failed cue file, otherwise the
// change-detection reason.
func ResultReason(res batch.Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return res.Reason
}

// cell fits value into exactly width terminal cells.
func cell(value string, width int) string {
	return runewidth.FillRight(TruncateWithEllipsis(value, width), width)
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis shortens value to max cells, ending in "..." when
// there is room for it.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if runewidth.StringWidth(value) <= max {
		return value
	}
	if max <= 3 {
		return runewidth.Truncate(value, max, "")
	}
	return runewidth.Truncate(value, max, "...")
}
