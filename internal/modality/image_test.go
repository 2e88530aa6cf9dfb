package modality

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/tool"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f.text, f.err
}

func testImageProducer(baseURL string, gen llm.Generator) *imageProducer {
	return &imageProducer{
		prompter: llm.NewClient(gen),
		apiKey:   "key",
		model:    "wanx-v1",
		size:     "1024*1024",
		style:    "<watercolor>",
		baseURL:  baseURL,
		client:   http.DefaultClient,
		poll:     time.Millisecond,
	}
}

func newWanxServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(wanxSubmitPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-DashScope-Async") != "enable" {
			t.Error("submit without async header")
		}
		fmt.Fprint(w, `{"output": {"task_id": "task-42", "task_status": "PENDING"}}`)
	})
	mux.HandleFunc(wanxTaskPath+"task-42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"output": {"task_id": "task-42", "task_status": "SUCCEEDED",
			"results": [{"url": %q}]}}`, "http://"+r.Host+"/image.png")
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	return httptest.NewServer(mux)
}

func TestImageCall_RendersEveryPage(t *testing.T) {
	server := newWanxServer(t)
	defer server.Close()

	p := testImageProducer(server.URL, &fakeLLM{text: "a vivid scene"})
	dir := t.TempDir()

	res, err := p.Call(context.Background(), tool.Params{
		"pages":     []string{"page one", "page two"},
		"save_path": dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.String("status", "") != "success" {
		t.Fatalf("status = %v", res["status"])
	}

	prompts := res.StringSlice("prompts")
	if len(prompts) != 2 || prompts[0] != "a vivid scene" {
		t.Fatalf("prompts = %v", prompts)
	}
	for i := 1; i <= 2; i++ {
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("p%d.png", i)))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "png-bytes" {
			t.Fatalf("p%d.png = %q", i, data)
		}
	}
}

func TestImageCall_PromptFallsBackToPageText(t *testing.T) {
	server := newWanxServer(t)
	defer server.Close()

	p := testImageProducer(server.URL, &fakeLLM{err: fmt.Errorf("backend down")})
	res, err := p.Call(context.Background(), tool.Params{
		"pages":     []string{"the original page text"},
		"save_path": t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	prompts := res.StringSlice("prompts")
	if prompts[0] != "the original page text" {
		t.Fatalf("prompts = %v", prompts)
	}
}

func TestImageCall_RenderFailureDoesNotFailWorker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(wanxSubmitPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "quota exceeded"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := testImageProducer(server.URL, &fakeLLM{text: "prompt"})
	dir := t.TempDir()
	res, err := p.Call(context.Background(), tool.Params{
		"pages":     []string{"page"},
		"save_path": dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.String("status", "") != "success" {
		t.Fatalf("status = %v", res["status"])
	}
	assets := res.StringSlice("generation_results")
	if len(assets) != 1 || assets[0] != "" {
		t.Fatalf("assets = %v", assets)
	}
	if _, err := os.Stat(filepath.Join(dir, "p1.png")); err == nil {
		t.Fatal("asset file written despite render failure")
	}
}

func TestImageCall_RequiresSavePath(t *testing.T) {
	p := testImageProducer("http://unused", &fakeLLM{text: "x"})
	_, err := p.Call(context.Background(), tool.Params{"pages": []string{"a"}})
	if err == nil || !strings.Contains(err.Error(), "save_path") {
		t.Fatalf("err = %v", err)
	}
}
