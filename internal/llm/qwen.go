package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func init() {
	Register("qwen", newQwen)
}

const qwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// qwen speaks the DashScope OpenAI-compatible chat completions API.
type qwen struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newQwen(cfg map[string]any) (Generator, error) {
	apiKey, _ := cfg["api_key"].(string)
	if apiKey == "" {
		apiKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("qwen: api key not provided (set DASHSCOPE_API_KEY or api_key)")
	}

	p := &qwen{
		apiKey:  apiKey,
		baseURL: qwenBaseURL,
		model:   "qwen-plus",
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	if model, _ := cfg["model"].(string); model != "" {
		p.model = model
	}
	if baseURL, _ := cfg["base_url"].(string); baseURL != "" {
		p.baseURL = baseURL
	}
	return p, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	Seed        int64         `json:"seed,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *qwen) Complete(ctx context.Context, req Request) (string, error) {
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		Seed:        req.Seed,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("qwen: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("qwen: reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("qwen: unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "no error detail"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("qwen: status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("qwen: response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
