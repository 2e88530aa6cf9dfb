package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rmartinelli/plume/internal/story"
	"github.com/rmartinelli/plume/internal/tool"
)

func pages() []story.Page {
	return []story.Page{
		{Text: "once upon a time"},
		{Text: "placeholder", Fallback: true},
	}
}

func TestFromPages(t *testing.T) {
	s := FromPages(pages())
	if len(s.Pages) != 2 {
		t.Fatalf("pages = %d", len(s.Pages))
	}
	if s.Pages[0].Story != "once upon a time" || s.Pages[0].Fallback {
		t.Fatalf("page 0 = %+v", s.Pages[0])
	}
	if !s.Pages[1].Fallback {
		t.Fatal("fallback flag lost")
	}
}

func TestMergeImage(t *testing.T) {
	s := FromPages(pages())
	s.MergeImage(tool.Result{
		"modality": "image",
		"status":   "success",
		"prompts":  []string{"a castle at dawn", "a quiet forest"},
	})
	if s.Pages[0].ImagePrompt != "a castle at dawn" {
		t.Fatalf("page 0 prompt = %q", s.Pages[0].ImagePrompt)
	}
	if s.Pages[1].ImagePrompt != "a quiet forest" {
		t.Fatalf("page 1 prompt = %q", s.Pages[1].ImagePrompt)
	}
}

func TestMergeImage_FailedResult(t *testing.T) {
	s := FromPages(pages())
	s.MergeImage(tool.Result{"modality": "image", "status": "failed", "error": "boom"})
	for i, p := range s.Pages {
		if p.ImagePrompt != "" {
			t.Fatalf("page %d carries prompt from failed worker: %q", i, p.ImagePrompt)
		}
	}
}

func TestMergeImage_NilAndMalformed(t *testing.T) {
	s := FromPages(pages())
	s.MergeImage(nil)
	s.MergeImage(tool.Result{"status": "success"})
	s.MergeImage(tool.Result{"status": "success", "prompts": "not a list"})
	for i, p := range s.Pages {
		if p.ImagePrompt != "" {
			t.Fatalf("page %d = %+v", i, p)
		}
	}
}

func TestMergeImage_ShortPromptList(t *testing.T) {
	s := FromPages(pages())
	s.MergeImage(tool.Result{"status": "success", "prompts": []string{"only one"}})
	if s.Pages[0].ImagePrompt != "only one" {
		t.Fatalf("page 0 = %+v", s.Pages[0])
	}
	if s.Pages[1].ImagePrompt != "" {
		t.Fatalf("page 1 = %+v", s.Pages[1])
	}
}

func TestWrite_DisabledModalityOmitsImagePrompt(t *testing.T) {
	dir := t.TempDir()
	s := FromPages(pages())
	if err := s.Write(dir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("image_prompt")) {
		t.Fatalf("manifest carries image_prompt: %s", data)
	}

	var decoded Script
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Pages) != 2 || decoded.Pages[0].Story != "once upon a time" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestWrite_Idempotent(t *testing.T) {
	dir := t.TempDir()
	s := FromPages(pages())
	s.MergeImage(tool.Result{"status": "success", "prompts": []string{"p1", "p2"}})

	if err := s.Write(dir); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(dir); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("repeated writes differ")
	}
}
