// Package tui renders the notification tray as an interactive terminal UI.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/wardlink/internal/tray"
)

// refreshInterval is how often the view re-reads the tray.
const refreshInterval = time.Second

// KeyMap defines the tray keybindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Read    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Read:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle read")),
		Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	badgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	readStyle     = lipgloss.NewStyle().Faint(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	severityStyle = map[tray.Severity]lipgloss.Style{
		tray.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		tray.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tray.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		tray.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

type refreshMsg struct{}

// Model is the bubbletea model for the tray view.
type Model struct {
	tray   *tray.Tray
	keys   KeyMap
	items  []tray.Item
	cursor int
	width  int
}

// NewModel creates a Model over the given tray.
func NewModel(t *tray.Tray) Model {
	return Model{tray: t, keys: DefaultKeyMap(), items: t.Items()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return refreshTick()
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case refreshMsg:
		m.items = m.tray.Items()
		m.clampCursor()
		return m, refreshTick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Read):
			if item, ok := m.selected(); ok {
				if item.Read {
					m.tray.MarkUnread(item.ID)
				} else {
					m.tray.MarkRead(item.ID)
				}
				m.items = m.tray.Items()
			}
		case key.Matches(msg, m.keys.Dismiss):
			if item, ok := m.selected(); ok {
				m.tray.Dismiss(item.ID)
				m.items = m.tray.Items()
				m.clampCursor()
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	header := titleStyle.Render("Notifications")
	if unread := m.tray.Unread(); unread > 0 {
		header += " " + badgeStyle.Render(fmt.Sprintf("(%d unread)", unread))
	}
	out := header + "\n\n"
	if len(m.items) == 0 {
		out += readStyle.Render("Nothing here.") + "\n"
	}
	for i, item := range m.items {
		line := m.renderItem(item)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		out += line + "\n"
	}
	out += "\n" + footerStyle.Render("↑/↓ move · r toggle read · d dismiss · q quit")
	return out
}

func (m Model) renderItem(item tray.Item) string {
	sev, ok := severityStyle[item.Severity]
	if !ok {
		sev = severityStyle[tray.SeverityInfo]
	}
	marker := "●"
	if item.Read {
		marker = " "
	}
	text := item.Message
	if item.Title != "" {
		text = item.Title + ": " + text
	}
	line := fmt.Sprintf("%s %s %s %s",
		marker,
		sev.Render(fmt.Sprintf("%-7s", item.Severity)),
		item.Timestamp.Format("15:04"),
		text)
	if item.Read {
		line = readStyle.Render(line)
	}
	return line
}

func (m Model) selected() (tray.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return tray.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
