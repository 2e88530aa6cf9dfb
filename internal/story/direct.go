package story

import (
	"context"
	"strings"

	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/ux"
)

// DirectWriter turns source material into pages in a single generation call,
// without the summarize/outline steps. Used for short material where an
// outline adds nothing.
type DirectWriter struct {
	Client *llm.Client
}

// WriteStory produces 5-8 pages directly from the material, or the constant
// fallback set when generation fails.
func (w *DirectWriter) WriteStory(ctx context.Context, source string) []Page {
	if strings.TrimSpace(source) == "" {
		source = "No source material was provided."
	}

	res := w.Client.Generate(ctx, directPrompt(source), CheckPageList)
	if res.Accepted {
		if got, err := ParsePageList(res.Text); err == nil {
			pages := make([]Page, 0, len(got))
			for _, text := range got {
				pages = append(pages, Page{Text: strings.TrimSpace(text)})
			}
			return pages
		}
	}

	ux.FallbackNotice("story", "direct story generation failed, using default pages")
	return defaultDirectPages()
}

func defaultDirectPages() []Page {
	texts := []string{
		"Overview: an introduction to the provided source material",
		"Key findings: the main trends in the material",
		"Deep dive: what the material actually means",
		"Applications: the practical implications of the material",
		"Outlook: a summary of the insights",
	}
	pages := make([]Page, len(texts))
	for i, t := range texts {
		pages[i] = Page{Text: t, Fallback: true}
	}
	return pages
}
