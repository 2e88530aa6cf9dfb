package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rmartinelli/plume/internal/state"
	"github.com/rmartinelli/plume/internal/story"
	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

// Page is one manifest row merging story text with per-modality metadata.
// Fallback marks rows whose text is deterministic placeholder content, so
// downstream consumers can tell degraded output from generated output.
type Page struct {
	Story       string `json:"story"`
	ImagePrompt string `json:"image_prompt,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// Script is the durable artifact for one run. It is written once and never
// mutated afterward.
type Script struct {
	Pages []Page `json:"pages"`
}

// FromPages builds the manifest skeleton from the page sequence.
func FromPages(pages []story.Page) *Script {
	s := &Script{Pages: make([]Page, len(pages))}
	for i, p := range pages {
		s.Pages[i] = Page{Story: p.Text, Fallback: p.Fallback}
	}
	return s
}

// MergeImage copies per-page prompts from the image modality result into
// the manifest. A missing or structurally unexpected result is reported and
// treated as "no images", never as a fatal error.
func (s *Script) MergeImage(res tool.Result) {
	if res == nil {
		return
	}
	if res.String("status", "") == "failed" {
		ux.Notice("manifest", "image result marked failed, manifest will carry no image prompts")
		return
	}
	prompts := res.StringSlice("prompts")
	if prompts == nil {
		ux.Notice("manifest", "image result has no usable prompts, manifest will carry no image prompts")
		return
	}
	for i := range s.Pages {
		if i < len(prompts) && prompts[i] != "" {
			s.Pages[i].ImagePrompt = prompts[i]
		}
	}
}

// Path returns the manifest location under the story directory.
func Path(storyDir string) string {
	return filepath.Join(storyDir, "script_data.json")
}

// Write persists the manifest atomically. Output is deterministic: identical
// pages and modality results produce byte-identical files.
func (s *Script) Write(storyDir string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := state.WriteFileAtomic(Path(storyDir), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
