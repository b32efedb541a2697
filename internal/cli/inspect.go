package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/color"
	"subburn/internal/compile"
	"subburn/internal/logx"
	"subburn/internal/timecode"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <cue-file>",
		Short: "Show the resolved style registry and layer table for a cue file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	cuePath, err := resolveCuePath(proj.Paths.CuesDir, args[0])
	if err != nil {
		return err
	}
	job, issues, err := batch.LoadJob(proj.Config, cuePath)
	if err != nil {
		return err
	}
	reportIssues(cmd, cuePath, issues)

	opts := batch.CompileOptions(proj.Config, job, compile.FormatASS)
	opts.Observer = logx.Observer{Logger: proj.Logger, Source: cuePath}
	report, err := compile.Inspect(job.Segments, opts)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, "inspect", report)
	}

	out := cmd.OutOrStdout()
	styleRows := make([][]string, 0, len(report.Styles))
	for _, def := range report.Styles {
		c := def.Style
		styleRows = append(styleRows, []string{
			def.Name,
			c.FontName,
			strconv.Itoa(c.FontSize),
			colourCell(c.PrimaryColour),
			colourCell(c.OutlineColour),
			effects(c.HasOutline, c.HasBackground, c.HasGlow),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Style", "Font", "Size", "Primary", "Outline", "Effects"},
		styleRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string{
			strconv.Itoa(row.Index),
			timecode.FormatASS(row.Start),
			timecode.FormatASS(row.End),
			row.Style,
			strconv.Itoa(row.Layer),
			strings.Join(row.Passes, "+"),
			firstLine(row.Text),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"#", "Start", "End", "Style", "Layer", "Passes", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	if len(report.Fonts) > 0 {
		fmt.Fprintf(out, "fonts: %s\n", strings.Join(report.Fonts, ", "))
	}
	return nil
}

// colourCell shows an ASS colour as #RRGGBBAA when it parses.
func colourCell(ass string) string {
	if c, err := color.ParseASS(ass); err == nil {
		return c.Packed(color.SchemeHex)
	}
	return ass
}

func effects(outline, box, glow bool) string {
	var parts []string
	if glow {
		parts = append(parts, "glow")
	}
	if box {
		parts = append(parts, "box")
	}
	if outline {
		parts = append(parts, "outline")
	}
	return nonEmptyOrDash(strings.Join(parts, ","))
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i] + " …"
	}
	return text
}
