// Package ui holds the terminal presentation helpers: lipgloss styles for
// the command banners and prompts, a runewidth-aware model table and a
// glamour renderer for viewing saved reports in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/codybook/codybook/internal/session"
)

// Styles for command output
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")). // violet
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")) // gray-400

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")). // emerald
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")) // red-500

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")) // blue-400

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")) // gray-500
)

// Banner prints a command title with a subtitle line below it.
func Banner(title, subtitle string) {
	fmt.Println(TitleStyle.Render(title))
	if subtitle != "" {
		fmt.Println(SubtitleStyle.Render(subtitle))
	}
	fmt.Println()
}

// Errorf prints a formatted error line.
func Errorf(format string, args ...any) {
	fmt.Println(ErrorStyle.Render("❌ " + fmt.Sprintf(format, args...)))
}

// Successf prints a formatted success line.
func Successf(format string, args ...any) {
	fmt.Println(SuccessStyle.Render("✅ " + fmt.Sprintf(format, args...)))
}

// Infof prints a formatted informational line.
func Infof(format string, args ...any) {
	fmt.Println(InfoStyle.Render(fmt.Sprintf(format, args...)))
}

// ModelTable lays the model listing out as an aligned text table. Column
// widths are computed with runewidth so wide characters don't skew the
// alignment.
func ModelTable(models []session.ModelInfo) string {
	headers := []string{"Model ID", "Owner", "Created"}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{m.ID, m.OwnedBy, fmt.Sprintf("%d", m.Created)})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			if i < len(cells)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		sb.WriteString(strings.Repeat("-", w))
		if i < len(widths)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// RenderMarkdown renders a saved report for terminal display. On renderer
// failure the raw markdown is returned so the document is never lost.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
