package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ToolConfig names a registered tool and carries its config block.
type ToolConfig struct {
	Tool   string         `yaml:"tool"`
	Params map[string]any `yaml:"params"`
}

// Config is the run configuration for one pipeline invocation.
// Stage and modality toggles default to enabled when absent.
type Config struct {
	Name     string `yaml:"name"`
	StoryDir string `yaml:"story_dir"`

	EnableStory  *bool `yaml:"enable_story"`
	EnableImage  *bool `yaml:"enable_image"`
	EnableSpeech *bool `yaml:"enable_speech"`
	EnableVideo  *bool `yaml:"enable_video"`

	// WorkerTimeout bounds each modality worker, in minutes.
	WorkerTimeout int `yaml:"worker_timeout"`

	StoryWriter      ToolConfig `yaml:"story_writer"`
	ImageGeneration  ToolConfig `yaml:"image_generation"`
	SpeechGeneration ToolConfig `yaml:"speech_generation"`
	VideoCompose     ToolConfig `yaml:"video_compose"`
}

// Load reads a YAML config file and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// StoryEnabled reports whether the story-writing stage runs.
func (c *Config) StoryEnabled() bool { return enabled(c.EnableStory) }

// VideoEnabled reports whether the video composition stage runs.
func (c *Config) VideoEnabled() bool { return enabled(c.EnableVideo) }

// ModalityEnabled reports whether the named modality's worker is launched.
// Unknown modalities are disabled.
func (c *Config) ModalityEnabled(modality string) bool {
	switch modality {
	case "image":
		return enabled(c.EnableImage)
	case "speech":
		return enabled(c.EnableSpeech)
	}
	return false
}

// ModalityTool returns the producer config for the named modality.
func (c *Config) ModalityTool(modality string) (ToolConfig, bool) {
	switch modality {
	case "image":
		return c.ImageGeneration, true
	case "speech":
		return c.SpeechGeneration, true
	}
	return ToolConfig{}, false
}
