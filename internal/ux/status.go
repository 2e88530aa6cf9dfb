package ux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rmartinelli/plume/internal/state"
)

// RenderStatus prints the full status display for a story run.
func RenderStatus(name string, run *state.Run, storyDir string) {
	timing, _ := state.LoadTiming(storyDir)

	// Header
	fmt.Printf("%sStory:%s  %s\n", Bold, Reset, name)
	fmt.Printf("%sRun:%s    %s\n", Bold, Reset, run.RunID)
	if run.StageIndex >= len(state.StageNames) {
		fmt.Printf("%sState:%s  %s%scompleted%s\n", Bold, Reset, Green, Bold, Reset)
	} else {
		fmt.Printf("%sState:%s  %d/%d (%s) — %s\n",
			Bold, Reset, run.StageIndex+1, len(state.StageNames),
			state.StageNames[run.StageIndex], run.Status)
	}
	if run.PageCount > 0 {
		fmt.Printf("%sPages:%s  %d\n", Bold, Reset, run.PageCount)
	}

	// Completed stages
	if run.StageIndex > 0 {
		fmt.Printf("\n%sCompleted:%s\n", Bold, Reset)
		for i := 0; i < run.StageIndex && i < len(state.StageNames); i++ {
			dur := stageDuration(timing, state.StageNames[i])
			fmt.Printf("  %s%d%s  %-12s %sdone%s  %s\n",
				Dim, i+1, Reset, state.StageNames[i], Green, Reset, dur)
		}
	}

	// Remaining stages
	if run.StageIndex < len(state.StageNames) {
		fmt.Printf("\n%sRemaining:%s\n", Bold, Reset)
		for i := run.StageIndex; i < len(state.StageNames); i++ {
			marker := "  "
			if i == run.StageIndex {
				marker = fmt.Sprintf("%s→%s ", Yellow, Reset)
			}
			fmt.Printf("  %s%s%d%s  %s\n",
				marker, Dim, i+1, Reset, state.StageNames[i])
		}
	}

	// Output listing
	fmt.Printf("\n%sOutputs:%s\n", Bold, Reset)
	entries, err := os.ReadDir(storyDir)
	if err != nil {
		fmt.Printf("  %s(none)%s\n", Dim, Reset)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			subEntries, _ := os.ReadDir(filepath.Join(storyDir, e.Name()))
			if len(subEntries) > 0 {
				first := subEntries[0].Name()
				last := subEntries[len(subEntries)-1].Name()
				if first == last {
					fmt.Printf("  %s/%s/%s\n", storyDir, e.Name(), first)
				} else {
					fmt.Printf("  %s/%s/%s .. %s\n", storyDir, e.Name(), first, last)
				}
			}
		} else {
			fmt.Printf("  %s/%s\n", storyDir, e.Name())
		}
	}
	fmt.Println()
}

func stageDuration(timing *state.Timing, stageName string) string {
	if timing == nil {
		return ""
	}
	if d := timing.FindDuration(stageName); d != "" {
		return fmt.Sprintf("(%s)", d)
	}
	return ""
}
