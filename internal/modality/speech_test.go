package modality

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rmartinelli/plume/internal/tool"
)

func testSpeechProducer(t *testing.T, voice string) *speechProducer {
	t.Helper()
	t.Setenv("ALIYUN_ACCESS_TOKEN", "tok")
	t.Setenv("ALIYUN_APP_KEY", "app")
	p, err := newSpeechProducer(tool.Params{"voice": voice})
	if err != nil {
		t.Fatal(err)
	}
	return p.(*speechProducer)
}

func TestNewSpeechProducer_MissingCredentials(t *testing.T) {
	t.Setenv("ALIYUN_ACCESS_TOKEN", "")
	t.Setenv("ALIYUN_APP_KEY", "")
	_, err := newSpeechProducer(tool.Params{})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"ALIYUN_ACCESS_TOKEN", "ALIYUN_APP_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not name %s", err, name)
		}
	}
}

func TestNewSpeechProducer_AppKeyFromConfig(t *testing.T) {
	t.Setenv("ALIYUN_ACCESS_TOKEN", "tok")
	t.Setenv("ALIYUN_APP_KEY", "")
	p, err := newSpeechProducer(tool.Params{"app_key": "from-config"})
	if err != nil {
		t.Fatal(err)
	}
	if p.(*speechProducer).appKey != "from-config" {
		t.Fatalf("appKey = %q", p.(*speechProducer).appKey)
	}
}

func TestNewSpeechProducer_UnsupportedVoiceFallsBack(t *testing.T) {
	p := testSpeechProducer(t, "nonexistent-voice")
	if p.voice != "xiaoyun" {
		t.Fatalf("voice = %q", p.voice)
	}
}

func TestStartFrame(t *testing.T) {
	p := testSpeechProducer(t, "xiaogang")

	data, err := p.startFrame("task-1", "hello world")
	if err != nil {
		t.Fatal(err)
	}

	var frame speechFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Header.Name != "StartSynthesis" || frame.Header.Namespace != "SpeechSynthesizer" {
		t.Fatalf("header = %+v", frame.Header)
	}
	if frame.Header.TaskID != "task-1" || frame.Header.MessageID == "" {
		t.Fatalf("header ids = %+v", frame.Header)
	}
	if frame.Header.AppKey != "app" {
		t.Fatalf("appkey = %q", frame.Header.AppKey)
	}
	if frame.Payload["text"] != "hello world" || frame.Payload["voice"] != "xiaogang" {
		t.Fatalf("payload = %v", frame.Payload)
	}
	if frame.Payload["format"] != "mp3" {
		t.Fatalf("format = %v", frame.Payload["format"])
	}
}

func TestStartFrame_FreshMessageIDs(t *testing.T) {
	p := testSpeechProducer(t, "xiaoyun")

	a, _ := p.startFrame("t", "x")
	b, _ := p.startFrame("t", "x")

	var fa, fb speechFrame
	json.Unmarshal(a, &fa)
	json.Unmarshal(b, &fb)
	if fa.Header.MessageID == fb.Header.MessageID {
		t.Fatal("message IDs reused across frames")
	}
}

func TestSpeechCall_RequiresSavePath(t *testing.T) {
	p := testSpeechProducer(t, "xiaoyun")
	_, err := p.Call(context.Background(), tool.Params{"pages": []string{"a"}})
	if err == nil {
		t.Fatal("expected error for missing save_path")
	}
}
