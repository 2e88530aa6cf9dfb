package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rmartinelli/plume/internal/config"
	"github.com/rmartinelli/plume/internal/manifest"
	"github.com/rmartinelli/plume/internal/modality"
	"github.com/rmartinelli/plume/internal/state"
	"github.com/rmartinelli/plume/internal/story"
	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

// Runner drives the three-stage pipeline: story writing, modality asset
// generation, video composition. The flow is strictly forward; no stage
// result feeds back into an earlier stage.
type Runner struct {
	Config   *config.Config
	Registry *tool.Registry
	Source   string
	State    *state.Run
	Timing   *state.Timing

	// Pages is set after the story stage and owned by the runner for the
	// rest of the run.
	Pages []story.Page

	// Results is set after the assets stage; read only after the fan-out
	// join barrier inside generateAssets.
	Results modality.Results
}

var stageDescriptions = map[string]string{
	"story":  "Write the story pages from the source material",
	"assets": "Generate per-modality assets and the script manifest",
	"video":  "Compose the storytelling video",
}

func (r *Runner) fail(status string, err error) error {
	r.State.Status = status
	if saveErr := r.State.Save(r.Config.StoryDir); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save state: %v\n", saveErr)
	}
	if r.Timing != nil {
		if flushErr := r.Timing.Flush(r.Config.StoryDir); flushErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush timing: %v\n", flushErr)
		}
	}
	return err
}

// Run executes the pipeline from the beginning.
func (r *Runner) Run(ctx context.Context) error {
	if err := state.EnsureDirs(r.Config.StoryDir, config.Modalities); err != nil {
		return err
	}

	timing, err := state.LoadTiming(r.Config.StoryDir)
	if err != nil {
		return fmt.Errorf("loading timing: %w", err)
	}
	r.Timing = timing

	total := len(state.StageNames)
	stages := []func(context.Context) error{
		r.writeStory,
		r.generateAssets,
		r.composeVideo,
	}

	r.State.StageIndex = 0
	for i, stage := range stages {
		name := state.StageNames[i]
		if ctx.Err() != nil {
			return r.fail(state.StatusInterrupted, ctx.Err())
		}

		ux.StageHeader(i, total, name, stageDescriptions[name])
		r.Timing.AddStart(name)
		start := time.Now()

		if err := stage(ctx); err != nil {
			if ctx.Err() != nil {
				return r.fail(state.StatusInterrupted, ctx.Err())
			}
			ux.StageFail(i, name, err.Error())
			return r.fail(state.StatusFailed, fmt.Errorf("stage %q: %w", name, err))
		}

		r.Timing.AddEnd(name)
		if err := r.Timing.Flush(r.Config.StoryDir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush timing: %v\n", err)
		}
		r.State.Advance()
		r.State.Status = state.StatusRunning
		if err := r.State.Save(r.Config.StoryDir); err != nil {
			return fmt.Errorf("saving state after stage %q: %w", name, err)
		}
		ux.StageComplete(i, time.Since(start))
	}

	r.State.Status = state.StatusCompleted
	if err := r.State.Save(r.Config.StoryDir); err != nil {
		return fmt.Errorf("saving final state: %w", err)
	}
	ux.Success(total)
	return nil
}

// writeStory runs the story stage. When the stage is disabled a constant
// placeholder page set keeps the downstream stages functional.
func (r *Runner) writeStory(ctx context.Context) error {
	if !r.Config.StoryEnabled() {
		ux.StageSkip(0, "story")
		r.Pages = placeholderStory()
		r.State.PageCount = len(r.Pages)
		return nil
	}

	writer, err := r.Registry.Resolve(r.Config.StoryWriter.Tool, r.Config.StoryWriter.Params)
	if err != nil {
		return err
	}
	res, err := writer.Call(ctx, tool.Params{"source": r.Source})
	if err != nil {
		return err
	}
	pages, ok := res["pages"].([]story.Page)
	if !ok || len(pages) == 0 {
		return fmt.Errorf("story writer %q returned no pages", r.Config.StoryWriter.Tool)
	}
	r.Pages = pages
	r.State.PageCount = len(pages)
	return nil
}

// generateAssets fans out one isolated worker per enabled modality, joins
// them all, merges the image side channel, and writes the manifest.
func (r *Runner) generateAssets(ctx context.Context) error {
	tasks, err := r.buildTasks()
	if err != nil {
		return err
	}

	r.Results = modality.Run(ctx, tasks)

	script := manifest.FromPages(r.Pages)
	if imageRes, ok := r.Results["image"]; ok {
		script.MergeImage(imageRes)
	}
	return script.Write(r.Config.StoryDir)
}

// buildTasks resolves the producer for each enabled modality and prepares
// its isolated parameter copy. Unknown producers are construction errors
// and fail the run before any worker starts.
func (r *Runner) buildTasks() ([]modality.Task, error) {
	timeout := time.Duration(r.Config.WorkerTimeout) * time.Minute

	var tasks []modality.Task
	for _, name := range config.Modalities {
		if !r.Config.ModalityEnabled(name) {
			ux.ModalitySkip(name)
			continue
		}
		tc, _ := r.Config.ModalityTool(name)
		producer, err := r.Registry.Resolve(tc.Tool, tool.Params(tc.Params))
		if err != nil {
			return nil, err
		}

		params := tool.Params(tc.Params).Clone()
		params["pages"] = story.Texts(r.Pages)
		params["save_path"] = filepath.Join(r.Config.StoryDir, name)

		tasks = append(tasks, modality.Task{
			Modality: name,
			Producer: producer,
			Params:   params,
			Timeout:  timeout,
		})
	}
	return tasks, nil
}

// composeVideo runs the final composition stage. Its result is not consumed
// by the driver.
func (r *Runner) composeVideo(ctx context.Context) error {
	if !r.Config.VideoEnabled() {
		ux.StageSkip(2, "video")
		return nil
	}

	composer, err := r.Registry.Resolve(r.Config.VideoCompose.Tool, tool.Params(r.Config.VideoCompose.Params))
	if err != nil {
		return err
	}
	params := tool.Params(r.Config.VideoCompose.Params).Clone()
	params["pages"] = story.Texts(r.Pages)
	params["story_dir"] = r.Config.StoryDir

	_, err = composer.Call(ctx, params)
	return err
}

// DryRunPrint prints the stage plan without executing.
func (r *Runner) DryRunPrint() {
	fmt.Printf("\n%sDry run — %d stages:%s\n\n", ux.Bold, len(state.StageNames), ux.Reset)
	for i, name := range state.StageNames {
		fmt.Printf("  %s%d.%s %s%s%s — %s\n", ux.Cyan, i+1, ux.Reset, ux.Bold, name, ux.Reset, stageDescriptions[name])
		switch name {
		case "story":
			if r.Config.StoryEnabled() {
				fmt.Printf("     writer: %s\n", r.Config.StoryWriter.Tool)
			} else {
				fmt.Printf("     disabled: constant placeholder pages\n")
			}
		case "assets":
			for _, m := range config.Modalities {
				if r.Config.ModalityEnabled(m) {
					tc, _ := r.Config.ModalityTool(m)
					fmt.Printf("     %s: %s\n", m, tc.Tool)
				} else {
					fmt.Printf("     %s: disabled\n", m)
				}
			}
		case "video":
			if r.Config.VideoEnabled() {
				fmt.Printf("     composer: %s\n", r.Config.VideoCompose.Tool)
			} else {
				fmt.Printf("     disabled\n")
			}
		}
	}
	fmt.Println()
}

func placeholderStory() []story.Page {
	return []story.Page{
		{Text: "Placeholder story page 1", Fallback: true},
		{Text: "Placeholder story page 2", Fallback: true},
		{Text: "Placeholder story page 3", Fallback: true},
	}
}
