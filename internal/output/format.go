// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ltask/internal/tasks"
)

const (
	// ListSeparator is the separator line around list headers.
	ListSeparator = "------------"

	markActive    = "[ ]"
	markCompleted = "[x]"
)

var (
	completedMark = color.New(color.FgGreen).SprintFunc()
	activeMark    = color.New(color.FgHiBlack).SprintFunc()
)

// FormatTask formats one table row.
// Format: "{N:>4}  {MARK}  {TEXT}\n" (4-wide right-aligned number, status mark, text)
func FormatTask(w io.Writer, num int, task tasks.Task, completed bool) {
	mark := activeMark(markActive)
	if completed {
		mark = completedMark(markCompleted)
	}
	fmt.Fprintf(w, "%4d  %s  %s\n", num, mark, normalizeText(task.Text))
}

// FormatListHeader formats the header of the active or completed view.
func FormatListHeader(w io.Writer, completed bool) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, ListTitle(completed))
	fmt.Fprintln(w, ListSeparator)
}

// FormatList writes the header and a numbered row for each task.
func FormatList(w io.Writer, list []tasks.Task, completed bool) {
	FormatListHeader(w, completed)
	for i, t := range list {
		FormatTask(w, i+1, t, completed)
	}
}

// ListTitle names a view.
func ListTitle(completed bool) string {
	if completed {
		return "Completed Tasks"
	}
	return "Active Tasks"
}

// ThemeName returns "dark" or "light".
func ThemeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// normalizeText keeps a task on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
