package story

import (
	"encoding/json"
	"strings"
)

// Outline is the structured chapter plan derived from the source material.
type Outline struct {
	Title    string    `json:"story_title"`
	Chapters []Chapter `json:"story_outline"`
}

// Chapter is one outline entry.
type Chapter struct {
	Title   string `json:"chapter_title"`
	Summary string `json:"chapter_summary"`
}

// Summary is the structured digest of the source material used to steer
// outline generation.
type Summary struct {
	KeyPoints       []string `json:"key_points"`
	MainThemes      []string `json:"main_themes"`
	RecommendedFlow string   `json:"recommended_flow"`
}

// stripFences removes a markdown code-fence wrapper from model output,
// if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CheckOutline reports whether text parses as an outline object with exactly
// the two top-level keys and exactly the two keys per chapter. Any deviation
// is a rejection, not a partial success.
func CheckOutline(text string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return false
	}
	if len(raw) != 2 {
		return false
	}
	if _, ok := raw["story_title"]; !ok {
		return false
	}
	rawChapters, ok := raw["story_outline"]
	if !ok {
		return false
	}
	var chapters []map[string]json.RawMessage
	if err := json.Unmarshal(rawChapters, &chapters); err != nil {
		return false
	}
	for _, ch := range chapters {
		if len(ch) != 2 {
			return false
		}
		if _, ok := ch["chapter_title"]; !ok {
			return false
		}
		if _, ok := ch["chapter_summary"]; !ok {
			return false
		}
	}
	return true
}

// ParseOutline decodes outline JSON after fence stripping. Callers should
// have validated the text with CheckOutline first.
func ParseOutline(text string) (Outline, error) {
	var o Outline
	err := json.Unmarshal([]byte(stripFences(text)), &o)
	return o, err
}

// ParsePageList decodes model output as an ordered list of page strings.
// Output is parsed strictly as JSON; generated text is never evaluated.
func ParsePageList(text string) ([]string, error) {
	var pages []string
	if err := json.Unmarshal([]byte(stripFences(text)), &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// CheckPageList reports whether text parses as an ordered list of strings.
func CheckPageList(text string) bool {
	_, err := ParsePageList(text)
	return err == nil
}

// ParseSummary decodes summary JSON after fence stripping.
func ParseSummary(text string) (Summary, error) {
	var s Summary
	err := json.Unmarshal([]byte(stripFences(text)), &s)
	return s, err
}
