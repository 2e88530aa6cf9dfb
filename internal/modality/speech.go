package modality

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

func init() {
	tool.Default.Register("cosyvoice_tts", newSpeechProducer)
}

// Gateway endpoints tried in order until one synthesis attempt succeeds.
var speechEndpoints = []string{
	"wss://nls-gateway-cn-shanghai.aliyuncs.com/ws/v1",
	"wss://nls-gateway-cn-beijing.aliyuncs.com/ws/v1",
	"wss://nls-gateway-cn-hangzhou.aliyuncs.com/ws/v1",
}

var supportedVoices = map[string]bool{
	"xiaoyun":  true,
	"xiaogang": true,
	"xiaowei":  true,
	"xiaoxiao": true,
}

// speechProducer narrates each page over the NLS speech-synthesis WebSocket
// protocol, writing one mp3 per page. Credentials come from the environment;
// the orchestration core never sees them.
type speechProducer struct {
	token      string
	appKey     string
	voice      string
	sampleRate int
	endpoints  []string
	dialer     *websocket.Dialer
}

func newSpeechProducer(cfg tool.Params) (tool.Tool, error) {
	token := os.Getenv("ALIYUN_ACCESS_TOKEN")
	appKey := os.Getenv("ALIYUN_APP_KEY")
	if appKey == "" {
		appKey = cfg.String("app_key", "")
	}

	var missing []string
	if token == "" {
		missing = append(missing, "ALIYUN_ACCESS_TOKEN")
	}
	if appKey == "" {
		missing = append(missing, "ALIYUN_APP_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("cosyvoice_tts: missing required credentials: %s", strings.Join(missing, ", "))
	}

	voice := cfg.String("voice", "xiaoyun")
	if !supportedVoices[voice] {
		ux.Notice("speech", fmt.Sprintf("voice %q may be unsupported, using xiaoyun", voice))
		voice = "xiaoyun"
	}

	return &speechProducer{
		token:      token,
		appKey:     appKey,
		voice:      voice,
		sampleRate: cfg.Int("sample_rate", 16000),
		endpoints:  speechEndpoints,
		dialer:     &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
	}, nil
}

func (p *speechProducer) Call(ctx context.Context, params tool.Params) (tool.Result, error) {
	pages := params.StringSlice("pages")
	saveDir := params.String("save_path", "")
	if saveDir == "" {
		return nil, fmt.Errorf("cosyvoice_tts: 'save_path' parameter is required")
	}

	generated := 0
	for idx, page := range pages {
		if strings.TrimSpace(page) == "" {
			ux.Notice("speech", fmt.Sprintf("page %d skipped: empty text", idx+1))
			continue
		}
		path := filepath.Join(saveDir, fmt.Sprintf("p%d.mp3", idx+1))
		if err := p.synthesize(ctx, page, path); err != nil {
			return nil, fmt.Errorf("page %d: %w", idx+1, err)
		}
		generated++
	}

	return tool.Result{
		"modality":        "speech",
		"status":          "success",
		"generated_files": generated,
		"voice":           p.voice,
	}, nil
}

// synthesize tries each gateway endpoint in turn until one produces a
// non-empty audio file.
func (p *speechProducer) synthesize(ctx context.Context, text, path string) error {
	var lastErr error
	for _, endpoint := range p.endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.synthesizeVia(ctx, endpoint, text, path); err != nil {
			ux.Notice("speech", fmt.Sprintf("endpoint %s failed: %v", endpoint, err))
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

type speechFrame struct {
	Header struct {
		MessageID string `json:"message_id"`
		TaskID    string `json:"task_id"`
		Namespace string `json:"namespace"`
		Name      string `json:"name"`
		AppKey    string `json:"appkey,omitempty"`
		Status    int    `json:"status,omitempty"`
		StatusMsg string `json:"status_message,omitempty"`
	} `json:"header"`
	Payload map[string]any `json:"payload,omitempty"`
}

// startFrame builds the StartSynthesis command for one page of text.
func (p *speechProducer) startFrame(taskID, text string) ([]byte, error) {
	var frame speechFrame
	frame.Header.MessageID = uuid.NewString()
	frame.Header.TaskID = taskID
	frame.Header.Namespace = "SpeechSynthesizer"
	frame.Header.Name = "StartSynthesis"
	frame.Header.AppKey = p.appKey
	frame.Payload = map[string]any{
		"text":        text,
		"voice":       p.voice,
		"format":      "mp3",
		"sample_rate": p.sampleRate,
		"volume":      50,
		"speech_rate": 0,
		"pitch_rate":  0,
	}
	return json.Marshal(frame)
}

// synthesizeVia runs one blocking synthesis against a single endpoint. The
// whole exchange is bounded by ctx rather than a polling loop: the read
// deadline tracks the context deadline, and cancellation closes the
// connection.
func (p *speechProducer) synthesizeVia(ctx context.Context, endpoint, text, path string) error {
	header := http.Header{"X-NLS-Token": []string{p.token}}
	conn, _, err := p.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	start, err := p.startFrame(uuid.NewString(), text)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, start); err != nil {
		return fmt.Errorf("start synthesis: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	written := int64(0)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			f.Close()
			os.Remove(path)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			n, err := f.Write(data)
			if err != nil {
				f.Close()
				os.Remove(path)
				return err
			}
			written += int64(n)

		case websocket.TextMessage:
			var frame speechFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			switch frame.Header.Name {
			case "SynthesisCompleted":
				if err := f.Close(); err != nil {
					return err
				}
				if written == 0 {
					os.Remove(path)
					return fmt.Errorf("synthesis completed with no audio data")
				}
				return nil
			case "TaskFailed":
				f.Close()
				os.Remove(path)
				return fmt.Errorf("synthesis failed: %s", frame.Header.StatusMsg)
			}
		}
	}
}
