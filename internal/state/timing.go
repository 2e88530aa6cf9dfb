package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type TimingEntry struct {
	Stage    string    `json:"stage"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end,omitempty"`
	Duration string    `json:"duration,omitempty"`
}

type Timing struct {
	mu      sync.Mutex
	Entries []TimingEntry `json:"entries"`
}

func timingPath(storyDir string) string {
	return filepath.Join(storyDir, "timing.json")
}

// LoadTiming reads timing data from the story directory.
func LoadTiming(storyDir string) (*Timing, error) {
	data, err := os.ReadFile(timingPath(storyDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Timing{}, nil
		}
		return nil, err
	}
	var t Timing
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Timing) save(storyDir string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(timingPath(storyDir), data, 0644)
}

// AddStart appends a new timing entry for the given stage.
func (t *Timing) AddStart(stageName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Entries = append(t.Entries, TimingEntry{
		Stage: stageName,
		Start: time.Now(),
	})
}

// AddEnd records the end time for the most recent entry matching stageName.
func (t *Timing) AddEnd(stageName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Stage == stageName && t.Entries[i].End.IsZero() {
			t.Entries[i].End = time.Now()
			d := t.Entries[i].End.Sub(t.Entries[i].Start)
			t.Entries[i].Duration = formatDuration(d)
			break
		}
	}
}

// Flush writes the in-memory timing data to disk.
func (t *Timing) Flush(storyDir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.save(storyDir)
}

// FindDuration returns the recorded duration for a stage, or "" if none.
func (t *Timing) FindDuration(stageName string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Stage == stageName && t.Entries[i].Duration != "" {
			return t.Entries[i].Duration
		}
	}
	return ""
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
