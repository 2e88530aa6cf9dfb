package story

import (
	"context"
	"fmt"

	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/tool"
)

func init() {
	tool.Default.Register("qa_outline_story_writer", newOutlineTool)
	tool.Default.Register("data_driven_story_writer", newDirectTool)
}

// clientFor builds a validated client over gen with the given system prompt
// and the shared tuning from the writer config block.
func clientFor(gen llm.Generator, cfg tool.Params, system string) *llm.Client {
	client := llm.NewClient(gen)
	client.System = system
	client.Temperature = cfg.Float("temperature", 1.0)
	client.MaxRetries = cfg.Int("max_retries", client.MaxRetries)
	return client
}

type outlineTool struct {
	writer *Writer
}

func newOutlineTool(cfg tool.Params) (tool.Tool, error) {
	gen, err := llm.New(cfg.String("llm", "qwen"), cfg)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		Analyzer:       clientFor(gen, cfg, summarySystem),
		Outliner:       clientFor(gen, cfg, writerSystem),
		Expander:       clientFor(gen, cfg, chapterSystem),
		NumChapters:    cfg.Int("num_outline", 4),
		ChapterRetries: cfg.Int("chapter_retries", 3),
	}
	return &outlineTool{writer: w}, nil
}

func (t *outlineTool) Call(ctx context.Context, params tool.Params) (tool.Result, error) {
	source := params.String("source", "")
	if source == "" {
		return nil, fmt.Errorf("story writer: 'source' parameter is required")
	}
	return tool.Result{"pages": t.writer.WriteStory(ctx, source)}, nil
}

type directTool struct {
	writer *DirectWriter
}

func newDirectTool(cfg tool.Params) (tool.Tool, error) {
	gen, err := llm.New(cfg.String("llm", "qwen"), cfg)
	if err != nil {
		return nil, err
	}
	return &directTool{writer: &DirectWriter{Client: clientFor(gen, cfg, directSystem)}}, nil
}

func (t *directTool) Call(ctx context.Context, params tool.Params) (tool.Result, error) {
	source := params.String("source", "")
	if source == "" {
		return nil, fmt.Errorf("story writer: 'source' parameter is required")
	}
	return tool.Result{"pages": t.writer.WriteStory(ctx, source)}, nil
}
