package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rmartinelli/plume/internal/ux"
)

var configTemplate = `name: my-story
story_dir: generated_stories/my-story

enable_story: true
enable_image: true
enable_speech: true
enable_video: true

# Minutes allowed per modality worker.
worker_timeout: 10

story_writer:
  tool: qa_outline_story_writer
  params:
    llm: qwen
    model: qwen-plus
    temperature: 1.0
    num_outline: 4
    max_retries: 3
    chapter_retries: 3

image_generation:
  tool: wanx_image
  params:
    llm: qwen
    model: wanx-v1
    size: "1024*1024"
    style: "<watercolor>"

speech_generation:
  tool: cosyvoice_tts
  params:
    voice: xiaoyun
    sample_rate: 16000

video_compose:
  tool: slideshow_video_compose
  params:
    page_seconds: 5
`

var sourceTemplate = `Replace this file with the source material for your story.

The story writer reads this text, summarizes it, plans an outline, and
expands each chapter into narration pages. Plain prose works best; a few
paragraphs about a topic, an event, or a dataset summary are enough.
`

// Init creates a plume.yaml config and a sample source file in targetDir.
func Init(targetDir string) error {
	configPath := filepath.Join(targetDir, "plume.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("plume.yaml already exists in %s", targetDir)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", targetDir, err)
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing plume.yaml: %w", err)
	}

	sourcePath := filepath.Join(targetDir, "source.txt")
	if _, err := os.Stat(sourcePath); err != nil {
		if err := os.WriteFile(sourcePath, []byte(sourceTemplate), 0644); err != nil {
			return fmt.Errorf("writing source.txt: %w", err)
		}
	}

	fmt.Printf("\n%s%s✓ Initialized plume project%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %splume.yaml%s — pipeline configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %ssource.txt%s — sample source material\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Edit %splume.yaml%s and set the story name and tools\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Replace %ssource.txt%s with your source material\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %splume run source.txt --dry-run%s to preview\n\n", ux.Cyan, ux.Reset)

	return nil
}
