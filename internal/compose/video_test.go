package compose

import (
	"strings"
	"testing"
)

func TestSegmentArgs_WithAudio(t *testing.T) {
	args := segmentArgs("img.png", "audio.mp3", "out.mp4", 5)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i img.png") || !strings.Contains(joined, "-i audio.mp3") {
		t.Fatalf("args = %v", args)
	}
	if !strings.Contains(joined, "-shortest") {
		t.Fatal("narrated segment not bounded by audio length")
	}
	if strings.Contains(joined, "-t 5") {
		t.Fatal("fixed duration used despite narration audio")
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("output not last: %v", args)
	}
}

func TestSegmentArgs_WithoutAudio(t *testing.T) {
	args := segmentArgs("img.png", "", "out.mp4", 7)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-t 7") {
		t.Fatalf("args = %v", args)
	}
	if strings.Contains(joined, "-c:a") || strings.Contains(joined, "-shortest") {
		t.Fatal("audio flags present without audio input")
	}
	if !strings.Contains(joined, "yuv420p") {
		t.Fatal("pixel format missing")
	}
}

func TestConcatArgs(t *testing.T) {
	args := concatArgs("list.txt", "story.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat") || !strings.Contains(joined, "-safe 0") {
		t.Fatalf("args = %v", args)
	}
	if !strings.Contains(joined, "-c copy") {
		t.Fatal("concat should be lossless")
	}
}

func TestConcatList(t *testing.T) {
	got := string(concatList([]string{"/tmp/seg1.mp4", "/tmp/seg2.mp4"}))
	want := "file '/tmp/seg1.mp4'\nfile '/tmp/seg2.mp4'\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb\nc\nd", 2); got != "c\nd" {
		t.Fatalf("got %q", got)
	}
	if got := tail("a\nb", 5); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}
