package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// StageNames lists the pipeline stages in execution order.
var StageNames = []string{"story", "assets", "video"}

// Run is the persisted progress record for one pipeline run.
type Run struct {
	RunID      string `json:"run_id"`
	StageIndex int    `json:"stage_index"`
	Status     string `json:"status"` // running, completed, failed, interrupted
	PageCount  int    `json:"page_count,omitempty"`
}

func statePath(storyDir string) string {
	return filepath.Join(storyDir, "state.json")
}

// Load reads the run state from the story directory. Returns a fresh run
// with a new ID if no state exists yet.
func Load(storyDir string) (*Run, error) {
	data, err := os.ReadFile(statePath(storyDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Run{RunID: uuid.NewString(), Status: StatusRunning}, nil
		}
		return nil, err
	}
	var r Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	return &r, nil
}

// Save writes the run state to the story directory.
func (r *Run) Save(storyDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(statePath(storyDir), data, 0644)
}

// Advance increments the stage index.
func (r *Run) Advance() {
	r.StageIndex++
}

// EnsureDirs creates the story directory and one subdirectory per modality.
// All output locations exist before any worker starts.
func EnsureDirs(storyDir string, modalities []string) error {
	dirs := []string{storyDir}
	for _, m := range modalities {
		dirs = append(dirs, filepath.Join(storyDir, m))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
