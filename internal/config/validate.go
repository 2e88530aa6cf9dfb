package config

import (
	"fmt"
)

// Modalities lists the output media derived from the story text, in the
// order their output directories are created.
var Modalities = []string{"image", "speech"}

// Validate checks the config for errors and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("config: 'name' is required")
	}
	if cfg.StoryDir == "" {
		cfg.StoryDir = "story"
	}

	if cfg.WorkerTimeout == 0 {
		cfg.WorkerTimeout = 10
	}
	if cfg.WorkerTimeout < 0 {
		return fmt.Errorf("config: worker_timeout must be >= 0")
	}

	if cfg.StoryEnabled() && cfg.StoryWriter.Tool == "" {
		return fmt.Errorf("config: story_writer.tool is required when story writing is enabled")
	}
	for _, modality := range Modalities {
		if !cfg.ModalityEnabled(modality) {
			continue
		}
		tc, _ := cfg.ModalityTool(modality)
		if tc.Tool == "" {
			return fmt.Errorf("config: %s_generation.tool is required when the %s modality is enabled", modality, modality)
		}
	}
	if cfg.VideoEnabled() && cfg.VideoCompose.Tool == "" {
		return fmt.Errorf("config: video_compose.tool is required when video composition is enabled")
	}

	return nil
}
