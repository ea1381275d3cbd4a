// Package style provides lipgloss styles for status output.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// colorEnabled is false when stdout is not a terminal, so piped output stays plain
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func render(color string, text string) string {
	if !colorEnabled {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// Ok colors text green, for up-to-date and completed states
func Ok(text string) string {
	return render("2", text)
}

// Stale colors text yellow, for packages whose head moved
func Stale(text string) string {
	return render("3", text)
}

// Bad colors text red, for failures and missing state
func Bad(text string) string {
	return render("1", text)
}

// Dim makes text dim/gray, for supplementary detail like commit hashes
func Dim(text string) string {
	return render("8", text)
}

// Repo colors a sub-repository directory name
func Repo(text string) string {
	return render("6", text)
}
