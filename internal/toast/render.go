package toast

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/wardlink/internal/tray"
)

var severityStyles = map[tray.Severity]lipgloss.Style{
	tray.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	tray.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	tray.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	tray.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

var closingStyle = lipgloss.NewStyle().Faint(true)

var borderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Render formats a single toast for terminal display.
func Render(t Toast) string {
	style, ok := severityStyles[t.Severity]
	if !ok {
		style = severityStyles[tray.SeverityInfo]
	}
	line := style.Render(strings.ToUpper(string(t.Severity))) + " " + t.Message
	if t.State == StateClosing {
		line = closingStyle.Render(line)
	}
	return borderStyle.Render(line)
}

// RenderStack formats the whole container, one toast per block, arrival
// order top to bottom.
func RenderStack(toasts []Toast) string {
	blocks := make([]string, 0, len(toasts))
	for _, t := range toasts {
		blocks = append(blocks, Render(t))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
