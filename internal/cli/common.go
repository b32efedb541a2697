package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/logx"
	"subburn/internal/paths"
)

// project bundles what most commands need: resolved paths, the loaded
// config and a file logger.
type project struct {
	Paths  paths.ProjectPaths
	Config config.Config
	Logger *slog.Logger
	closer io.Closer
}

// openProject resolves the project from --project, loads its config and
// opens a log file. Close must be called when the command finishes.
func openProject() (*project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return nil, err
	}
	if err := ensureProjectDir(pp); err != nil {
		return nil, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}
	pp = paths.ApplyConfig(pp, cfg)

	logger, closer, err := logx.New(pp, effectiveLogLevel(cfg))
	if err != nil {
		return nil, err
	}
	return &project{Paths: pp, Config: cfg, Logger: logger, closer: closer}, nil
}

func (p *project) Close() {
	if p != nil && p.closer != nil {
		_ = p.closer.Close()
	}
}

func effectiveLogLevel(cfg config.Config) string {
	if strings.TrimSpace(logLevel) != "" {
		return logLevel
	}
	return cfg.Logging.Level
}

func ensureProjectDir(pp paths.ProjectPaths) error {
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, label string, payload any) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s json: %w", label, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func nonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render() + "\n"
}
