package state

import (
	"os"

	"subburn/internal/config"
	"subburn/pkg/cuesheet"
)

const (
	ActionCompile = "compile"
	ActionSkip    = "skip"

	ReasonForced        = "forced"
	ReasonNew           = "new output"
	ReasonConfigChanged = "config changed"
	ReasonInputChanged  = "input changed"
	ReasonOutputMissing = "output missing"
	ReasonUpToDate      = "up to date"
)

// Target is one cue file and where its document goes.
type Target struct {
	CuePath    string
	OutputPath string
	Format     string
	Job        cuesheet.Job
}

// Key identifies the target in the state file.
func (t Target) Key() string {
	return t.OutputPath
}

// TargetAction describes the action to take for a single target.
type TargetAction struct {
	Target Target
	Action string
	Reason string
}

// DetectChanges determines which targets need compiling by comparing current
// inputs against the stored state.
func DetectChanges(cs *CompileState, targets []Target, cfg config.Config, force bool) []TargetAction {
	actions := make([]TargetAction, len(targets))

	if force {
		for i, t := range targets {
			actions[i] = TargetAction{Target: t, Action: ActionCompile, Reason: ReasonForced}
		}
		return actions
	}

	// An empty hash means no prior run recorded a config.
	if cs.GlobalConfigHash != "" && GlobalConfigHash(cfg) != cs.GlobalConfigHash {
		for i, t := range targets {
			actions[i] = TargetAction{Target: t, Action: ActionCompile, Reason: ReasonConfigChanged}
		}
		return actions
	}

	for i, t := range targets {
		prior, exists := cs.Jobs[t.Key()]
		if !exists {
			actions[i] = TargetAction{Target: t, Action: ActionCompile, Reason: ReasonNew}
			continue
		}

		if JobInputHash(t.Job, t.Format) != prior.InputHash {
			actions[i] = TargetAction{Target: t, Action: ActionCompile, Reason: ReasonInputChanged}
			continue
		}

		if _, err := os.Stat(t.OutputPath); os.IsNotExist(err) {
			actions[i] = TargetAction{Target: t, Action: ActionCompile, Reason: ReasonOutputMissing}
			continue
		}

		actions[i] = TargetAction{Target: t, Action: ActionSkip, Reason: ReasonUpToDate}
	}

	return actions
}

// Prune removes entries whose output paths are no longer produced.
func Prune(cs *CompileState, currentKeys map[string]bool) {
	for key := range cs.Jobs {
		if !currentKeys[key] {
			delete(cs.Jobs, key)
		}
	}
}
