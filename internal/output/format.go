// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"todoctl/internal/service"
	"todoctl/internal/tasks"
)

// BarWidth is the number of cells in the progress bar.
const BarWidth = 20

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), NormalizeTitle(task.Title))
}

// Checkbox renders the completion flag.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// FormatProgress writes the progress block:
//
//	Progress
//	[########............]  40%
//	2 completed
func FormatProgress(w io.Writer, p tasks.Progress) {
	fmt.Fprintln(w, "Progress")
	fmt.Fprintf(w, "[%s]  %s\n", Bar(p, BarWidth, "#", "."), Percent(p))
	fmt.Fprintf(w, "%d completed\n", p.Completed)
}

// Bar renders p as width cells of fill and rest.
func Bar(p tasks.Progress, width int, fill, rest string) string {
	filled := int(math.Round(p.Percent() / 100 * float64(width)))
	if filled > width {
		filled = width
	}
	return strings.Repeat(fill, filled) + strings.Repeat(rest, width-filled)
}

// Percent renders the completion percentage rounded to a whole number.
func Percent(p tasks.Progress) string {
	return fmt.Sprintf("%d%%", int(math.Round(p.Percent())))
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
