package story

import (
	"encoding/json"
	"fmt"
)

const summarySystem = `You are a data analysis expert. Analyze the provided source material and extract its key information and main trends.`

const writerSystem = `You are a professional data-story writer. Your task is to turn the provided source material into coherent story pages.
The material may contain statistics, event descriptions, user feedback, or other information.
Write an engaging story that stays close to the real content; do not add speculation or fiction beyond it.
Each story page should be concise and reflect the key information in the material.`

const chapterSystem = `You are a professional data-story writer. Given the source material, the current chapter, and the story so far, write detailed story pages for the current chapter.
Every page must be grounded in the material, accurate, and coherent with the pages already written.
The output format must be a JSON array of strings, one string per story page.`

func summaryPrompt(source string) string {
	return fmt.Sprintf(`Analyze the following source material, extract the key information, and produce a concise summary.

Source material:
%s

Return a JSON object with the following fields:
- "key_points": the key findings or trends in the material
- "main_themes": the main themes the material covers
- "recommended_flow": the suggested story flow, following the material's own logic`, source)
}

func outlinePrompt(source string, summary Summary, numChapters int) string {
	return fmt.Sprintf(`Create a story outline based on the following source material.

Summary:
- Key points: %v
- Main themes: %v
- Recommended flow: %s

Full source material:
%s

Produce an outline of %d chapters, each grounded in a specific part of the material.
Return JSON containing story_title and story_outline, where story_outline is a list whose entries contain chapter_title and chapter_summary. No other keys.`,
		summary.KeyPoints, summary.MainThemes, summary.RecommendedFlow, source, numChapters)
}

// chapterPrompt carries the source material, the current chapter, and every
// previously accumulated page, so later chapters stay coherent with earlier
// ones.
func chapterPrompt(source string, chapter Chapter, completed []string) string {
	payload, err := json.Marshal(map[string]any{
		"source_material": source,
		"current_chapter": chapter,
		"completed_story": completed,
	})
	if err != nil {
		// Only reachable for unmarshalable values; inputs are plain strings.
		return source
	}
	return string(payload)
}

const directSystem = `You are a professional data-story writer. Turn the provided source material directly into one coherent story.
Split the story into pages, one complete thought or data point per page.
Stay faithful to the material; avoid fiction and speculation.
The output format must be a JSON array of strings, one string per story page.`

func directPrompt(source string) string {
	return fmt.Sprintf(`Write one coherent story based on the following source material, split into pages:

Source material:
%s

Produce 5-8 story pages. Each page should:
1. Be grounded in a specific part of the material
2. Be concise and clear
3. Keep the overall story logically coherent
4. Avoid speculation

Do not produce more than 8 pages.
Return the story pages as a JSON array of strings.`, source)
}
