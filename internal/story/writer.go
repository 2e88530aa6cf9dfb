package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/ux"
)

// Page is one ordered unit of story text, the unit of work for every
// modality producer. Fallback marks deterministic placeholder content
// substituted after generation failed, so downstream consumers can tell it
// apart from generated text.
type Page struct {
	Text     string
	Fallback bool
}

// Texts returns the bare page strings in order.
func Texts(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Text
	}
	return out
}

// Writer derives page text from free-form source material in three steps:
// summarize the material, derive a chapter outline, then expand each chapter
// in order. Each step runs against its own validated client so the steps
// carry distinct system prompts; all three share one backend. Every failure
// path has a deterministic fallback; no error ever escapes WriteStory.
type Writer struct {
	Analyzer *llm.Client
	Outliner *llm.Client
	Expander *llm.Client

	// NumChapters is the requested outline length.
	NumChapters int

	// ChapterRetries is the caller-level retry budget per chapter. It wraps
	// the client's own internal retries as a second, independently
	// configurable layer.
	ChapterRetries int
}

// WriteStory produces the full ordered page sequence for the source
// material.
func (w *Writer) WriteStory(ctx context.Context, source string) []Page {
	summary := w.summarize(ctx, source)
	outline := w.outline(ctx, source, summary)
	return w.expand(ctx, source, outline)
}

func (w *Writer) summarize(ctx context.Context, source string) Summary {
	res := w.Analyzer.Generate(ctx, summaryPrompt(source), nil)
	if res.Accepted {
		if s, err := ParseSummary(res.Text); err == nil {
			return s
		}
	}
	ux.FallbackNotice("story", "summary generation failed, using default summary")
	return defaultSummary()
}

func (w *Writer) outline(ctx context.Context, source string, summary Summary) Outline {
	res := w.Outliner.Generate(ctx, outlinePrompt(source, summary, w.NumChapters), CheckOutline)
	if res.Accepted {
		if o, err := ParseOutline(res.Text); err == nil {
			return o
		}
	}
	ux.FallbackNotice("story", "outline generation failed, using default outline")
	return defaultOutline()
}

// expand walks the outline strictly in order: chapter i never starts before
// chapter i-1 completes, because each prompt includes all pages written so
// far.
func (w *Writer) expand(ctx context.Context, source string, outline Outline) []Page {
	var pages []Page
	for idx, chapter := range outline.Chapters {
		prompt := chapterPrompt(source, chapter, Texts(pages))
		res := w.Expander.Generate(ctx, prompt, CheckPageList)
		for attempt := 0; !res.Accepted && attempt < w.ChapterRetries; attempt++ {
			res = w.Expander.Resample(ctx, prompt, CheckPageList)
		}

		if res.Accepted {
			if got, err := ParsePageList(res.Text); err == nil {
				for _, text := range got {
					pages = append(pages, Page{Text: strings.TrimSpace(text)})
				}
				continue
			}
		}

		// A single chapter's failure never aborts the whole story.
		ux.FallbackNotice("story",
			fmt.Sprintf("chapter %d (%s) expansion failed, using placeholder pages", idx+1, chapter.Title))
		pages = append(pages, placeholderPages(idx, chapter)...)
	}
	return pages
}

func placeholderPages(idx int, chapter Chapter) []Page {
	return []Page{
		{Text: fmt.Sprintf("Chapter %d: %s", idx+1, chapter.Title), Fallback: true},
		{Text: "Data-based analysis content", Fallback: true},
	}
}

func defaultSummary() Summary {
	return Summary{
		KeyPoints:       []string{"Based on the provided source material"},
		MainThemes:      []string{"A story grounded in the source material"},
		RecommendedFlow: "Follow the order of the source material",
	}
}

func defaultOutline() Outline {
	return Outline{
		Title: "A Story from the Source Material",
		Chapters: []Chapter{
			{Title: "Overview", Summary: "Introduce the material and its main findings"},
			{Title: "Key Analysis", Summary: "Examine the key information in depth"},
			{Title: "Conclusions", Summary: "Summarize the insights and their practical meaning"},
		},
	}
}
