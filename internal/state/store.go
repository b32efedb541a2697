package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// JobState tracks the inputs and output of one compiled cue file.
type JobState struct {
	InputHash  string    `json:"input_hash"`
	CompiledAt time.Time `json:"compiled_at"`
	CuePath    string    `json:"cue_path"`
	Styles     int       `json:"styles"`
	Events     int       `json:"events"`
}

// CompileState tracks every output of a project, keyed by output path.
type CompileState struct {
	GlobalConfigHash string              `json:"global_config_hash"`
	Jobs             map[string]JobState `json:"jobs"`
}

// Load reads compile state from the given path. A missing or corrupt file
// returns an empty state without error.
func Load(path string) (*CompileState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var cs CompileState
	if err := json.Unmarshal(data, &cs); err != nil {
		return emptyState(), nil
	}

	if cs.Jobs == nil {
		cs.Jobs = map[string]JobState{}
	}
	return &cs, nil
}

// Save writes the compile state atomically to the given path.
func (cs *CompileState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func emptyState() *CompileState {
	return &CompileState{
		Jobs: map[string]JobState{},
	}
}
