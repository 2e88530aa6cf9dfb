package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmartinelli/plume/internal/config"
	"github.com/rmartinelli/plume/internal/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Name:             "test",
		StoryDir:         t.TempDir(),
		WorkerTimeout:    10,
		StoryWriter:      config.ToolConfig{Tool: "qa_outline_story_writer"},
		ImageGeneration:  config.ToolConfig{Tool: "wanx_image"},
		SpeechGeneration: config.ToolConfig{Tool: "cosyvoice_tts"},
		VideoCompose:     config.ToolConfig{Tool: "slideshow_video_compose"},
	}
}

func TestRun_NothingToDiagnose(t *testing.T) {
	cfg := testConfig(t)
	run := &state.Run{RunID: "r", Status: state.StatusCompleted}
	if err := Run(context.Background(), cfg, run); err != nil {
		t.Fatal(err)
	}
}

func TestGatherRun(t *testing.T) {
	cfg := testConfig(t)
	run := &state.Run{RunID: "r-1", Status: state.StatusFailed, StageIndex: 1, PageCount: 4}

	got := gatherRun(cfg, run)
	for _, want := range []string{"r-1", "failed", "assets", "Pages written: 4"} {
		if !strings.Contains(got, want) {
			t.Fatalf("gatherRun missing %q:\n%s", want, got)
		}
	}
}

func TestGatherStageConfig(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.EnableImage = &disabled

	got := gatherStageConfig(cfg, &state.Run{})
	if !strings.Contains(got, "image: tool=wanx_image enabled=false") {
		t.Fatalf("got:\n%s", got)
	}
	if !strings.Contains(got, "speech: tool=cosyvoice_tts enabled=true") {
		t.Fatalf("got:\n%s", got)
	}
}

func TestGatherOutputs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "image"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "image", "p1.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	got := gatherOutputs(dir)
	if !strings.Contains(got, "image/: 1 files") {
		t.Fatalf("got:\n%s", got)
	}
	if !strings.Contains(got, "state.json") {
		t.Fatalf("got:\n%s", got)
	}

	if got := gatherOutputs(filepath.Join(dir, "missing")); got != "(story directory missing)" {
		t.Fatalf("got %q", got)
	}
}
