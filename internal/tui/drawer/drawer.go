// Package drawer is the collapsible side navigation panel.
package drawer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/ui"
)

// Width is the drawer's rendered width including its border.
const Width = 26

// Page is a destination reachable from the drawer.
type Page int

const (
	PageImages Page = iota
	PageAbout
	PageSettings
	PageCredits
)

// NavigateMsg is emitted when an entry is chosen.
type NavigateMsg struct {
	Page Page
}

type entry struct {
	label string
	page  Page
}

// Model is inert until Activate is called: the trigger key does nothing
// before the application signals it is ready.
type Model struct {
	entries []entry
	cursor  int
	active  bool
	open    bool
	height  int
}

// New returns a closed, inactive drawer with one entry per page.
func New(lang locale.Language) Model {
	return Model{
		entries: []entry{
			{label: lang.Images, page: PageImages},
			{label: lang.About, page: PageAbout},
			{label: lang.Settings, page: PageSettings},
			{label: lang.Credits, page: PageCredits},
		},
	}
}

// Activate enables open/close on the trigger key.
func (m *Model) Activate() { m.active = true }

func (m Model) IsActive() bool { return m.active }

func (m Model) IsOpen() bool { return m.open }

// Close hides the panel without choosing an entry.
func (m *Model) Close() { m.open = false }

// Selected returns the page under the cursor.
func (m Model) Selected() Page {
	if len(m.entries) == 0 {
		return PageImages
	}
	return m.entries[m.cursor].page
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		if !m.open {
			if key.Matches(msg, ui.Keys.Menu) {
				m.open = true
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, ui.Keys.Menu, ui.Keys.Back):
			m.open = false
		case key.Matches(msg, ui.Keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, ui.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, ui.Keys.Enter):
			m.open = false
			page := m.Selected()
			return m, func() tea.Msg { return NavigateMsg{Page: page} }
		}
	}
	return m, nil
}

// View renders the panel, or nothing while it is closed.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	item := lipgloss.NewStyle().Padding(0, 1).Width(Width - 4)
	current := item.Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(ui.ColorPrimary)

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range m.entries {
		if i == m.cursor {
			b.WriteString(current.Render(e.label))
		} else {
			b.WriteString(item.Render(e.label))
		}
		b.WriteString("\n")
	}

	h := m.height
	if h < len(m.entries)+1 {
		h = len(m.entries) + 1
	}
	return ui.StylePaneFocused.Width(Width - 2).Height(h).Render(b.String())
}
