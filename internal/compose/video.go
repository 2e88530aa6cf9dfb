package compose

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

func init() {
	tool.Default.Register("slideshow_video_compose", newComposer)
}

// composer stitches the per-page image and narration assets into one
// storytelling video by shelling out to ffmpeg: one still-image segment per
// page, then a concat pass.
type composer struct {
	ffmpeg      string
	pageSeconds int // segment length for pages without narration audio
}

func newComposer(cfg tool.Params) (tool.Tool, error) {
	return &composer{
		ffmpeg:      cfg.String("ffmpeg", "ffmpeg"),
		pageSeconds: cfg.Int("page_seconds", 5),
	}, nil
}

func (c *composer) Call(ctx context.Context, params tool.Params) (tool.Result, error) {
	pages := params.StringSlice("pages")
	storyDir := params.String("story_dir", "")
	if storyDir == "" {
		return nil, fmt.Errorf("video compose: 'story_dir' parameter is required")
	}
	if _, err := exec.LookPath(c.ffmpeg); err != nil {
		return nil, fmt.Errorf("required binary %q not found in PATH", c.ffmpeg)
	}

	segDir, err := os.MkdirTemp("", "plume-segments-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(segDir)

	var segments []string
	for idx := range pages {
		img := filepath.Join(storyDir, "image", fmt.Sprintf("p%d.png", idx+1))
		if _, err := os.Stat(img); err != nil {
			ux.Notice("video", fmt.Sprintf("page %d skipped: no image asset", idx+1))
			continue
		}
		audio := filepath.Join(storyDir, "speech", fmt.Sprintf("p%d.mp3", idx+1))
		if _, err := os.Stat(audio); err != nil {
			audio = ""
		}

		seg := filepath.Join(segDir, fmt.Sprintf("seg%d.mp4", idx+1))
		if err := c.run(ctx, segmentArgs(img, audio, seg, c.pageSeconds)); err != nil {
			return nil, fmt.Errorf("page %d segment: %w", idx+1, err)
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("video compose: no page had a usable image asset")
	}

	listPath := filepath.Join(segDir, "concat.txt")
	if err := os.WriteFile(listPath, concatList(segments), 0644); err != nil {
		return nil, err
	}

	out := filepath.Join(storyDir, "story.mp4")
	if err := c.run(ctx, concatArgs(listPath, out)); err != nil {
		return nil, fmt.Errorf("concat: %w", err)
	}

	return tool.Result{
		"modality": "video",
		"status":   "success",
		"output":   out,
		"segments": len(segments),
	}, nil
}

// segmentArgs builds the ffmpeg invocation for one still-image segment.
// With narration the segment lasts as long as the audio; without it, a
// fixed page duration is used.
func segmentArgs(img, audio, out string, pageSeconds int) []string {
	args := []string{"-y", "-loop", "1", "-i", img}
	if audio != "" {
		args = append(args, "-i", audio, "-c:a", "aac", "-shortest")
	} else {
		args = append(args, "-t", strconv.Itoa(pageSeconds))
	}
	args = append(args,
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-pix_fmt", "yuv420p",
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		out,
	)
	return args
}

// concatArgs builds the ffmpeg invocation joining segments losslessly.
func concatArgs(listPath, out string) []string {
	return []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", out}
}

// concatList renders the concat demuxer file listing each segment.
func concatList(segments []string) []byte {
	var buf bytes.Buffer
	for _, seg := range segments {
		fmt.Fprintf(&buf, "file '%s'\n", seg)
	}
	return buf.Bytes()
}

func (c *composer) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.ffmpeg, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w\n%s", c.ffmpeg, args, err, tail(output.String(), 20))
	}
	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := bytes.Split([]byte(s), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
