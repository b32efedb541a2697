package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subburn/internal/batch"
	"subburn/internal/tui"
)

var (
	batchConcurrency int
	batchForce       bool
	batchFormat      string
	batchNoProgress  bool
	batchWait        time.Duration
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [cue-file...]",
		Short: "Compile every cue file under cues/, skipping unchanged outputs",
		RunE:  runBatch,
	}

	cmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Concurrent compilations (default batch.concurrency)")
	cmd.Flags().BoolVar(&batchForce, "force", false, "Recompile even if outputs are up to date")
	cmd.Flags().StringVar(&batchFormat, "format", "", "Override the output format of every cue file")
	cmd.Flags().BoolVar(&batchNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().DurationVar(&batchWait, "wait", 0, "How long to wait for another batch run to finish")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	cuePaths, err := batchCuePaths(proj.Paths.CuesDir, args, proj.Paths.CueFiles)
	if err != nil {
		return err
	}
	if len(cuePaths) == 0 {
		return fmt.Errorf("no cue files found in %s", proj.Paths.CuesDir)
	}

	runID := uuid.NewString()
	logger := proj.Logger.With(slog.String("run", runID))
	logger.Info("batch started", slog.Int("cues", len(cuePaths)), slog.Bool("force", batchForce))

	svc := batch.NewService(proj.Paths, proj.Config, logger)
	opts := batch.Options{
		Concurrency: batchConcurrency,
		Force:       batchForce,
		Format:      batchFormat,
		LockWait:    batchWait,
	}

	out := cmd.OutOrStdout()
	var (
		results []batch.Result
		runErr  error
	)
	switch tui.DetectMode(out, batchNoProgress, outputJSON) {
	case tui.ModeTUI:
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		model := tui.NewBatchModel("subburn batch · "+proj.Paths.Root, cuePaths)
		err := tui.RunWithWork(out, model, cancel, func(send func(tea.Msg)) {
			opts.Reporter = tui.NewBatchReporter(send)
			results, runErr = svc.Run(ctx, cuePaths, opts)
		})
		if err != nil && !errors.Is(err, tui.ErrInterrupted) {
			return err
		}
	default:
		results, runErr = svc.Run(ctx, cuePaths, opts)
	}
	if runErr != nil {
		return runErr
	}

	summary := summarizeBatch(results)
	logger.Info("batch finished",
		slog.Int("compiled", summary.Compiled),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)

	if outputJSON {
		if err := writeBatchJSON(cmd, proj.Paths.Root, runID, results, summary); err != nil {
			return err
		}
	} else {
		writeBatchOutput(out, cmd.ErrOrStderr(), results, summary)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d cue file(s) failed; see logs for details", summary.Failed)
	}
	return nil
}

// batchCuePaths resolves explicit arguments, or lists the cues directory
// when there are none.
func batchCuePaths(cuesDir string, args []string, list func() ([]string, error)) ([]string, error) {
	if len(args) == 0 {
		return list()
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := resolveCuePath(cuesDir, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}

type batchSummary struct {
	Compiled int `json:"compiled"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

func summarizeBatch(results []batch.Result) batchSummary {
	var s batchSummary
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.Failed++
		case res.Skipped:
			s.Skipped++
		default:
			s.Compiled++
		}
	}
	return s
}

type batchJSONResult struct {
	batch.Result
	Error string `json:"error,omitempty"`
}

func writeBatchJSON(cmd *cobra.Command, project, runID string, results []batch.Result, summary batchSummary) error {
	payload := struct {
		Project string            `json:"project"`
		RunID   string            `json:"run_id"`
		Results []batchJSONResult `json:"results"`
		Summary batchSummary      `json:"summary"`
	}{
		Project: project,
		RunID:   runID,
		Results: make([]batchJSONResult, 0, len(results)),
		Summary: summary,
	}
	for _, res := range results {
		payload.Results = append(payload.Results, batchJSONResult{Result: res, Error: errorString(res.Err)})
	}
	return writeJSON(cmd, "batch", payload)
}

func writeBatchOutput(out, errWriter io.Writer, results []batch.Result, summary batchSummary) {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := tui.ResultStatus(res)
		events, styles := "-", "-"
		if status == tui.StatusCompiled {
			events, styles = strconv.Itoa(res.Events), strconv.Itoa(res.Styles)
		}
		// Errors go to errWriter in full.
		reason := res.Reason
		if res.Err != nil {
			reason = ""
		}
		rows = append(rows, []string{
			strconv.Itoa(res.Index),
			filepath.Base(res.CuePath),
			nonEmptyOrDash(res.Format),
			status,
			nonEmptyOrDash(reason),
			events,
			styles,
		})
		if res.Err != nil {
			fmt.Fprintf(errWriter, "%s failed: %v\n", filepath.Base(res.CuePath), res.Err)
		}
	}
	fmt.Fprint(out, renderTable(
		[]string{"#", "Cue", "Format", "Status", "Reason", "Events", "Styles"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
	fmt.Fprintf(out, "completed batch: %d compiled, %d skipped, %d failed\n", summary.Compiled, summary.Skipped, summary.Failed)
}
