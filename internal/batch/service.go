// Package batch compiles every cue file of a project, skipping outputs
// whose inputs have not changed since the last run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"subburn/internal/compile"
	"subburn/internal/config"
	"subburn/internal/logx"
	"subburn/internal/paths"
	"subburn/internal/state"
)

// Service compiles cue files for a project.
type Service struct {
	Paths  paths.ProjectPaths
	Config config.Config
	Logger *slog.Logger
}

// Options controls batch execution behaviour.
type Options struct {
	Concurrency int
	Force       bool
	// Format overrides the format of every job when set.
	Format string
	// LockWait is how long to wait for another run to release the state
	// lock. Zero fails immediately.
	LockWait time.Duration
	Reporter ProgressReporter
}

// Result captures the outcome of one cue file.
type Result struct {
	Index      int           `json:"index"`
	CuePath    string        `json:"cue"`
	OutputPath string        `json:"output,omitempty"`
	Format     string        `json:"format,omitempty"`
	Skipped    bool          `json:"skipped"`
	Reason     string        `json:"reason,omitempty"`
	Styles     int           `json:"styles"`
	Events     int           `json:"events"`
	Fonts      []string      `json:"fonts,omitempty"`
	Issues     int           `json:"issues"`
	Duration   time.Duration `json:"duration_ns"`
	Err        error         `json:"-"`
}

// ProgressReporter receives notifications as cue files move through the batch.
// Start is called only for cue files that are about to compile; skipped and
// failed files go straight to Complete.
type ProgressReporter interface {
	Start(action state.TargetAction)
	Complete(result Result)
}

// ErrDuplicateOutput is returned for a cue file whose output path is already
// produced by an earlier cue file in the same batch.
var ErrDuplicateOutput = errors.New("output already produced by another cue file")

// NewService binds a batch compiler to a project.
func NewService(pp paths.ProjectPaths, cfg config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logx.Discard()
	}
	return &Service{Paths: pp, Config: cfg, Logger: logger}
}

// Run compiles cuePaths. Results are returned in input order. The error is
// set only when the batch could not run at all (lock or state failures);
// per-file failures are reported through Result.Err.
func (s *Service) Run(ctx context.Context, cuePaths []string, opts Options) ([]Result, error) {
	if s == nil {
		return nil, errors.New("batch service is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Paths.EnsureMetaDirs(); err != nil {
		return nil, err
	}

	lock, err := s.lock(ctx, opts.LockWait)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	cs, err := state.Load(s.Paths.StateFile)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	results := make([]Result, len(cuePaths))
	targets, positions := s.targets(cuePaths, opts, results)
	actions := state.DetectChanges(cs, targets, s.Config, opts.Force)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = s.Config.Batch.Concurrency
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, concurrency)
	)

	for i, action := range actions {
		i, action := i, action
		pos := positions[i]
		base := results[pos]

		if action.Action == state.ActionSkip {
			base.Skipped = true
			base.Reason = action.Reason
			results[pos] = base
			if opts.Reporter != nil {
				opts.Reporter.Complete(base)
			}
			continue
		}

		if err := acquireSlot(ctx, sem); err != nil {
			base.Err = err
			results[pos] = base
			if opts.Reporter != nil {
				opts.Reporter.Complete(base)
			}
			continue
		}

		if opts.Reporter != nil {
			opts.Reporter.Start(action)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			res := s.compileOne(action, base)
			if res.Err == nil {
				mu.Lock()
				cs.Jobs[action.Target.Key()] = state.JobState{
					InputHash:  state.JobInputHash(action.Target.Job, action.Target.Format),
					CompiledAt: time.Now().UTC(),
					CuePath:    action.Target.CuePath,
					Styles:     res.Styles,
					Events:     res.Events,
				}
				mu.Unlock()
			}
			results[pos] = res
			if opts.Reporter != nil {
				opts.Reporter.Complete(res)
			}
		}()
	}
	wg.Wait()

	current := make(map[string]bool, len(targets))
	for _, t := range targets {
		current[t.Key()] = true
	}
	state.Prune(cs, current)
	cs.GlobalConfigHash = state.GlobalConfigHash(s.Config)
	if err := cs.Save(s.Paths.StateFile); err != nil {
		return results, fmt.Errorf("save state: %w", err)
	}
	return results, nil
}

// Plan reports what Run would do without compiling or taking the lock.
// Results that would be compiled have Skipped false and a Reason.
func (s *Service) Plan(cuePaths []string, opts Options) ([]Result, error) {
	if s == nil {
		return nil, errors.New("batch service is nil")
	}
	cs, err := state.Load(s.Paths.StateFile)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	results := make([]Result, len(cuePaths))
	targets, positions := s.targets(cuePaths, opts, results)
	for i, action := range state.DetectChanges(cs, targets, s.Config, opts.Force) {
		res := &results[positions[i]]
		res.Skipped = action.Action == state.ActionSkip
		res.Reason = action.Reason
	}
	return results, nil
}

// acquireSlot waits for a worker slot. A cancelled context always wins.
func acquireSlot(ctx context.Context, sem chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sem <- struct{}{}:
		return nil
	}
}

func (s *Service) lock(ctx context.Context, wait time.Duration) (*state.Lock, error) {
	if wait <= 0 {
		return state.TryAcquire(s.Paths.LockFile)
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	return state.Acquire(ctx, s.Paths.LockFile)
}

// targets loads every cue file. Files that fail to load, or that would
// overwrite an earlier file's output, get their result filled in directly
// and produce no target; positions maps each target back to its slot in
// results.
func (s *Service) targets(cuePaths []string, opts Options, results []Result) ([]state.Target, []int) {
	var (
		targets   []state.Target
		positions []int
		claimed   = make(map[string]string, len(cuePaths))
	)
	for i, cuePath := range cuePaths {
		results[i] = Result{Index: i + 1, CuePath: cuePath}

		job, issues, err := LoadJob(s.Config, cuePath)
		if err != nil {
			results[i].Err = err
			continue
		}
		for _, issue := range issues {
			s.Logger.Warn("cue entry skipped", slog.String("cue", cuePath), slog.String("problem", issue.Error()))
		}
		results[i].Issues = len(issues)

		format, err := ResolveFormat(s.Config, job, opts.Format)
		if err != nil {
			results[i].Err = fmt.Errorf("%s: %w", cuePath, err)
			continue
		}
		out := s.Paths.OutputPath(s.Config, cuePath, format.Ext())
		results[i].OutputPath = out
		results[i].Format = string(format)
		if owner, taken := claimed[out]; taken {
			results[i].Err = fmt.Errorf("%s: %w: %s is written by %s", filepath.Base(cuePath), ErrDuplicateOutput, filepath.Base(out), filepath.Base(owner))
			continue
		}
		claimed[out] = cuePath

		targets = append(targets, state.Target{
			CuePath:    cuePath,
			OutputPath: out,
			Format:     string(format),
			Job:        job,
		})
		positions = append(positions, i)
	}
	return targets, positions
}

func (s *Service) compileOne(action state.TargetAction, result Result) Result {
	started := time.Now()
	target := action.Target
	result.Reason = action.Reason

	obs := logx.Observer{Logger: s.Logger, Source: target.CuePath}
	doc, err := CompileJob(s.Config, target.Job, compile.Format(target.Format), obs)
	if err != nil {
		result.Err = err
		return result
	}

	if err := writeDocument(target.OutputPath, doc.Text); err != nil {
		result.Err = err
		return result
	}

	result.Styles = doc.Styles
	result.Events = doc.Events
	result.Fonts = doc.Fonts
	result.Duration = time.Since(started)
	s.Logger.Info("compiled",
		slog.String("cue", target.CuePath),
		slog.String("output", target.OutputPath),
		slog.String("reason", action.Reason),
		slog.Int("events", doc.Events),
	)
	return result
}

// writeDocument replaces path atomically so readers never see a partial file.
func writeDocument(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
