package modality

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rmartinelli/plume/internal/llm"
	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

func init() {
	tool.Default.Register("wanx_image", newImageProducer)
}

const (
	wanxBaseURL    = "https://dashscope.aliyuncs.com/api/v1"
	wanxSubmitPath = "/services/aigc/text2image/image-synthesis"
	wanxTaskPath   = "/tasks/"
)

// imageProducer illustrates each page: it derives an illustration prompt
// through the validated client, then renders it with the DashScope
// image-synthesis API. The per-page prompts are returned alongside the
// rendered assets as a side channel for the manifest.
type imageProducer struct {
	prompter *llm.Client
	apiKey   string
	model    string
	size     string
	style    string
	baseURL  string
	client   *http.Client
	poll     time.Duration
}

func newImageProducer(cfg tool.Params) (tool.Tool, error) {
	gen, err := llm.New(cfg.String("llm", "qwen"), cfg)
	if err != nil {
		return nil, err
	}
	prompter := llm.NewClient(gen)
	prompter.System = "You write concise, vivid illustration prompts for a children's picture-book artist."
	prompter.Temperature = cfg.Float("temperature", 1.0)

	apiKey := cfg.String("api_key", os.Getenv("DASHSCOPE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("wanx_image: api key not provided (set DASHSCOPE_API_KEY or api_key)")
	}

	return &imageProducer{
		prompter: prompter,
		apiKey:   apiKey,
		model:    cfg.String("model", "wanx-v1"),
		size:     cfg.String("size", "1024*1024"),
		style:    cfg.String("style", "<watercolor>"),
		baseURL:  cfg.String("base_url", wanxBaseURL),
		client:   &http.Client{Timeout: 2 * time.Minute},
		poll:     3 * time.Second,
	}, nil
}

func (p *imageProducer) Call(ctx context.Context, params tool.Params) (tool.Result, error) {
	pages := params.StringSlice("pages")
	saveDir := params.String("save_path", "")
	if saveDir == "" {
		return nil, fmt.Errorf("wanx_image: 'save_path' parameter is required")
	}

	prompts := make([]string, len(pages))
	assets := make([]string, len(pages))
	for idx, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prompts[idx] = p.derivePrompt(ctx, page)

		path := filepath.Join(saveDir, fmt.Sprintf("p%d.png", idx+1))
		if err := p.render(ctx, prompts[idx], path); err != nil {
			// Keep the prompt, record a missing asset, move on. One bad
			// page must not fail the whole worker.
			ux.Notice("image", fmt.Sprintf("page %d render failed: %v", idx+1, err))
			continue
		}
		assets[idx] = path
	}

	return tool.Result{
		"modality":           "image",
		"status":             "success",
		"prompts":            prompts,
		"generation_results": assets,
	}, nil
}

// derivePrompt asks the language backend for an illustration prompt,
// falling back to the raw page text when generation fails.
func (p *imageProducer) derivePrompt(ctx context.Context, page string) string {
	ask := fmt.Sprintf(`Write one illustration prompt for the following story page.
Describe the scene, subjects, and mood in a single paragraph. Respond with the prompt text only.

Story page:
%s`, page)
	res := p.prompter.Generate(ctx, ask, func(text string) bool {
		return strings.TrimSpace(text) != ""
	})
	if !res.Accepted {
		ux.FallbackNotice("image", "prompt derivation failed, using page text as prompt")
		return page
	}
	return strings.TrimSpace(res.Text)
}

type wanxSubmitRequest struct {
	Model string `json:"model"`
	Input struct {
		Prompt string `json:"prompt"`
	} `json:"input"`
	Parameters struct {
		Size  string `json:"size,omitempty"`
		Style string `json:"style,omitempty"`
		N     int    `json:"n"`
	} `json:"parameters"`
}

type wanxTaskResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
		Results    []struct {
			URL string `json:"url"`
		} `json:"results"`
		Message string `json:"message"`
	} `json:"output"`
	Message string `json:"message"`
}

// render submits a synthesis task and blocks until it finishes or ctx is
// done, then downloads the first result to path.
func (p *imageProducer) render(ctx context.Context, prompt, path string) error {
	taskID, err := p.submit(ctx, prompt)
	if err != nil {
		return err
	}

	url, err := p.await(ctx, taskID)
	if err != nil {
		return err
	}
	return p.download(ctx, url, path)
}

func (p *imageProducer) submit(ctx context.Context, prompt string) (string, error) {
	var req wanxSubmitRequest
	req.Model = p.model
	req.Input.Prompt = prompt
	req.Parameters.Size = p.size
	req.Parameters.Style = p.style
	req.Parameters.N = 1

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+wanxSubmitPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("X-DashScope-Async", "enable")

	var parsed wanxTaskResponse
	if err := p.do(httpReq, &parsed); err != nil {
		return "", err
	}
	if parsed.Output.TaskID == "" {
		return "", fmt.Errorf("submit returned no task id: %s", parsed.Message)
	}
	return parsed.Output.TaskID, nil
}

// await polls the task until it reaches a terminal status. The wait is
// bounded by ctx, not by a fixed spin budget.
func (p *imageProducer) await(ctx context.Context, taskID string) (string, error) {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			p.baseURL+wanxTaskPath+taskID, nil)
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

		var parsed wanxTaskResponse
		if err := p.do(httpReq, &parsed); err != nil {
			return "", err
		}
		switch parsed.Output.TaskStatus {
		case "SUCCEEDED":
			if len(parsed.Output.Results) == 0 {
				return "", fmt.Errorf("task %s succeeded with no results", taskID)
			}
			return parsed.Output.Results[0].URL, nil
		case "FAILED", "CANCELED":
			return "", fmt.Errorf("task %s %s: %s", taskID, parsed.Output.TaskStatus, parsed.Output.Message)
		}
	}
}

func (p *imageProducer) do(req *http.Request, out *wanxTaskResponse) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, out.Message)
	}
	return nil
}

func (p *imageProducer) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: status %d", url, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
