package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmartinelli/plume/internal/config"
	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/manifest"
	"github.com/rmartinelli/plume/internal/state"
	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

const maxManifestBytes = 4096

const diagPrompt = `You are diagnosing a failed story generation run. Analyze the context below and provide a concise diagnosis.

## Run
%s

## Stage Configuration
%s

## Outputs On Disk
%s
%s
Instructions:
1. Identify which stage failed and the most likely cause.
2. Classify this as a CONFIGURATION problem (wrong tool name, missing credentials, bad parameters) or a GENERATION problem (model output rejected, backend unavailable, timeout).
3. Suggest specific fixes.
4. Recommend whether to re-run the whole pipeline or fix credentials/config first.

Be direct and concise. Focus on actionable advice.`

// Run gathers failure context from the story directory and asks the
// configured LLM for a diagnosis.
func Run(ctx context.Context, cfg *config.Config, run *state.Run) error {
	if run.Status != state.StatusFailed && run.Status != state.StatusInterrupted {
		fmt.Println("No failed run to diagnose.")
		return nil
	}

	prompt := fmt.Sprintf(diagPrompt,
		gatherRun(cfg, run),
		gatherStageConfig(cfg, run),
		gatherOutputs(cfg.StoryDir),
		gatherManifest(cfg.StoryDir))

	stageName := "done"
	if run.StageIndex < len(state.StageNames) {
		stageName = state.StageNames[run.StageIndex]
	}
	fmt.Printf("\n%s%s══ Doctor: diagnosing stage %d/%d (%s) ══%s\n\n",
		ux.Bold, ux.Cyan, run.StageIndex+1, len(state.StageNames), stageName, ux.Reset)

	params := tool.Params(cfg.StoryWriter.Params)
	gen, err := llm.New(params.String("llm", "qwen"), params)
	if err != nil {
		return fmt.Errorf("building diagnosis backend: %w", err)
	}
	text, err := gen.Complete(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		return fmt.Errorf("diagnosis call failed: %w", err)
	}
	fmt.Println(text)
	fmt.Println()
	return nil
}

func gatherRun(cfg *config.Config, run *state.Run) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Name: %s", cfg.Name))
	parts = append(parts, fmt.Sprintf("Run ID: %s", run.RunID))
	parts = append(parts, fmt.Sprintf("Status: %s", run.Status))
	if run.StageIndex < len(state.StageNames) {
		parts = append(parts, fmt.Sprintf("Failed stage: %d/%d (%s)",
			run.StageIndex+1, len(state.StageNames), state.StageNames[run.StageIndex]))
	}
	if run.PageCount > 0 {
		parts = append(parts, fmt.Sprintf("Pages written: %d", run.PageCount))
	}
	if timing, err := state.LoadTiming(cfg.StoryDir); err == nil {
		for _, name := range state.StageNames {
			if d := timing.FindDuration(name); d != "" {
				parts = append(parts, fmt.Sprintf("Stage %s took %s", name, d))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func gatherStageConfig(cfg *config.Config, run *state.Run) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("story: tool=%s enabled=%t", cfg.StoryWriter.Tool, cfg.StoryEnabled()))
	for _, m := range config.Modalities {
		tc, _ := cfg.ModalityTool(m)
		parts = append(parts, fmt.Sprintf("%s: tool=%s enabled=%t", m, tc.Tool, cfg.ModalityEnabled(m)))
	}
	parts = append(parts, fmt.Sprintf("video: tool=%s enabled=%t", cfg.VideoCompose.Tool, cfg.VideoEnabled()))
	parts = append(parts, fmt.Sprintf("worker_timeout: %d minutes", cfg.WorkerTimeout))
	return strings.Join(parts, "\n")
}

// gatherOutputs lists what each modality actually produced, so partial
// output (three images out of eight pages) is visible to the diagnosis.
func gatherOutputs(storyDir string) string {
	var parts []string
	entries, err := os.ReadDir(storyDir)
	if err != nil {
		return "(story directory missing)"
	}
	for _, e := range entries {
		if e.IsDir() {
			sub, _ := os.ReadDir(filepath.Join(storyDir, e.Name()))
			parts = append(parts, fmt.Sprintf("%s/: %d files", e.Name(), len(sub)))
		} else {
			info, err := e.Info()
			if err != nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s (%d bytes)", e.Name(), info.Size()))
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, "\n")
}

func gatherManifest(storyDir string) string {
	data, err := os.ReadFile(manifest.Path(storyDir))
	if err != nil {
		return ""
	}
	if len(data) > maxManifestBytes {
		data = data[:maxManifestBytes]
	}
	return fmt.Sprintf("\n## Script Manifest\n%s\n", string(data))
}
