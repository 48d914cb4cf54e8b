package imagesview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wallforfry/harbor/internal/filter"
	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/ops"
	"github.com/wallforfry/harbor/internal/ui"
)

const noTag = "-"

// Model is the images table with its search input. Every row keeps its
// own visibility; the table only renders the visible ones.
type Model struct {
	lang    locale.Language
	search  textinput.Model
	table   table.Model
	rows    []filter.Row
	refs    []ops.TagRef
	visible []int // indexes into rows/refs, in table order
	width   int
	height  int
	loading bool
	err     error
	partial error
}

func New(lang locale.Language) Model {
	search := textinput.New()
	search.Prompt = lang.Search + ": "
	search.Placeholder = "nginx"
	search.CharLimit = 256

	t := table.New(
		table.WithColumns(columns(lang, 80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(ui.ColorPrimary).
		Bold(false)
	t.SetStyles(styles)

	return Model{lang: lang, search: search, table: t, loading: true}
}

func columns(lang locale.Language, width int) []table.Column {
	nameW := width * 65 / 100
	tagW := width - nameW - 4
	if tagW < 4 {
		tagW = 4
	}
	return []table.Column{
		{Title: lang.Name, Width: nameW},
		{Title: lang.Tag, Width: tagW},
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.CatalogLoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.partial = msg.Partial
		if msg.Err != nil {
			return m, nil
		}
		m.refs = ops.Flatten(msg.Repositories)
		cells := make([][]string, len(m.refs))
		for i, r := range m.refs {
			tag := r.Tag
			if tag == "" {
				tag = noTag
			}
			cells[i] = []string{r.Repository, tag}
		}
		m.rows = filter.FromCells(cells)
		m.applyFilter()
		m.table.SetCursor(0)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = msg.Width - lipgloss.Width(m.search.Prompt) - 2
		m.table.SetColumns(columns(m.lang, msg.Width))
		m.table.SetWidth(msg.Width)
		// count line + search line
		h := msg.Height - 2
		if h < 2 {
			h = 2
		}
		m.table.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			if key.Matches(msg, ui.Keys.Done) {
				m.search.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch {
		case key.Matches(msg, ui.Keys.Search):
			m.table.Blur()
			return m, m.search.Focus()
		case key.Matches(msg, ui.Keys.Enter):
			ref := m.SelectedRef()
			if ref == nil || ref.Tag == "" {
				return m, nil
			}
			r := *ref
			return m, func() tea.Msg { return ui.OpenImageMsg{Name: r.Repository, Tag: r.Tag} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyFilter recomputes every row's visibility from the current query and
// rebuilds the table rows.
func (m *Model) applyFilter() {
	filter.Apply(m.rows, m.search.Value())

	m.visible = make([]int, 0, len(m.rows))
	rows := make([]table.Row, 0, len(m.rows))
	for i, r := range m.rows {
		if !r.Visible {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row(r.Cells))
	}
	m.table.SetRows(rows)

	if len(rows) > 0 {
		if c := m.table.Cursor(); c < 0 {
			m.table.SetCursor(0)
		} else if c >= len(rows) {
			m.table.SetCursor(len(rows) - 1)
		}
	}
}

// SetQuery replaces the search input value and refilters.
func (m *Model) SetQuery(q string) {
	m.search.SetValue(q)
	m.applyFilter()
}

func (m Model) Query() string { return m.search.Value() }

// IsSearching reports whether keystrokes go to the search input.
func (m Model) IsSearching() bool { return m.search.Focused() }

// SelectedRef returns the repository/tag under the cursor, or nil.
func (m Model) SelectedRef() *ops.TagRef {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	ref := m.refs[m.visible[c]]
	return &ref
}

// VisibleRefs returns the rows currently shown, in order.
func (m Model) VisibleRefs() []ops.TagRef {
	out := make([]ops.TagRef, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.refs[idx]
	}
	return out
}

// Counts returns the number of visible rows and of all rows.
func (m Model) Counts() (int, int) { return len(m.visible), len(m.rows) }

func (m Model) View() string {
	if m.loading {
		return "\n  " + m.lang.Loading
	}
	if m.err != nil {
		return fmt.Sprintf("\n  %s: %v\n\n  %s", m.lang.ErrorString, m.err, m.lang.Retry)
	}
	if len(m.rows) == 0 {
		return "\n  " + m.lang.NoImages + "\n\n  " + m.lang.Refresh
	}

	shown, total := m.Counts()
	count := fmt.Sprintf("  %d %s", total, m.lang.Images)
	if shown != total {
		count = fmt.Sprintf("  %d / %d %s", shown, total, m.lang.Images)
	}
	if m.partial != nil {
		count += ui.StyleWarning.Render("  " + m.lang.PartialLoad)
	}

	return ui.StyleMuted.Render(count) + "\n" + m.search.View() + "\n" + m.table.View()
}

// ShortHelp lists the bindings shown in the status bar.
func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.Search,
		ui.Keys.Refresh,
		ui.Keys.Menu,
	}
}
