package ux

import (
	"fmt"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// StageHeader prints a timestamped stage header.
func StageHeader(index, total int, name, description string) {
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	desc := ""
	if description != "" {
		desc = fmt.Sprintf(" — %s", description)
	}
	fmt.Printf("%s[%s]%s  %sStage %d/%d: %s%s%s\n",
		Dim, timestamp(), Reset, Bold, index+1, total, name, desc, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// StageComplete prints a stage completion message.
func StageComplete(index int, duration time.Duration) {
	m := int(duration.Minutes())
	s := int(duration.Seconds()) % 60
	fmt.Printf("%s[%s]%s  %s✓ Stage %d complete (%dm %02ds)%s\n",
		Dim, timestamp(), Reset, Green, index+1, m, s, Reset)
}

// StageFail prints a stage failure message.
func StageFail(index int, stageName, errMsg string) {
	fmt.Printf("%s[%s]%s  %s✗ Stage %d (%s) failed: %s%s\n",
		Dim, timestamp(), Reset, Red, index+1, stageName, errMsg, Reset)
}

// StageSkip prints a stage skip message (disabled in config).
func StageSkip(index int, stageName string) {
	fmt.Printf("%s[%s]%s  %s– Stage %d (%s) skipped (disabled)%s\n",
		Dim, timestamp(), Reset, Dim, index+1, stageName, Reset)
}

// ModalitySkip prints a one-line notice for a disabled modality.
func ModalitySkip(modality string) {
	fmt.Printf("%s[%s]%s  %s– modality %q skipped (disabled)%s\n",
		Dim, timestamp(), Reset, Dim, modality, Reset)
}

// WorkerFail prints a modality worker failure. The run continues; the
// failure is recorded in the result table instead.
func WorkerFail(modality, errMsg string) {
	fmt.Printf("%s[%s]%s  %sworker-failed: modality %q: %s%s\n",
		Dim, timestamp(), Reset, Red, modality, errMsg, Reset)
}

// FallbackNotice reports an absorbed failure that was resolved with
// deterministic fallback content. One line per absorbed failure, greppable
// by the "fallback:" prefix.
func FallbackNotice(component, detail string) {
	fmt.Printf("%s[%s]%s  %sfallback: %s: %s%s\n",
		Dim, timestamp(), Reset, Yellow, component, detail, Reset)
}

// Notice prints a plain informational line.
func Notice(component, detail string) {
	fmt.Printf("%s[%s]%s  %s%s: %s%s\n",
		Dim, timestamp(), Reset, Dim, component, detail, Reset)
}

// Success prints a final success message.
func Success(total int) {
	fmt.Printf("\n%s[%s]%s  %s%s══ All %d stages complete ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, total, Reset)
}
