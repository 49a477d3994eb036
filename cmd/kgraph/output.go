package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// kv renders aligned key/value lines.
func kv(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		key := keyStyle.Render(fmt.Sprintf("%-*s", width, p[0]))
		lines[i] = key + "  " + valueStyle.Render(p[1])
	}
	return strings.Join(lines, "\n")
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + boxStyle.Render(body)
}
