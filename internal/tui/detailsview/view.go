package detailsview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/ui"
)

type Model struct {
	lang     locale.Language
	image    *model.Image
	cached   bool
	name     string
	tag      string
	viewport viewport.Model
	width    int
	height   int
	loading  bool
}

func New(lang locale.Language) Model {
	return Model{lang: lang, viewport: viewport.New(0, 0)}
}

// SetLoading shows the placeholder for name:tag until its image arrives.
func (m *Model) SetLoading(name, tag string) {
	m.name = name
	m.tag = tag
	m.image = nil
	m.loading = true
	m.viewport.SetContent("")
}

// Ref returns the repository and tag being shown.
func (m Model) Ref() (string, string) { return m.name, m.tag }

// Image returns the image being shown, or nil.
func (m Model) Image() *model.Image { return m.image }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ImageLoadedMsg:
		if msg.Name != m.name || msg.Tag != m.tag {
			return m, nil // stale response for a tag no longer shown
		}
		m.loading = false
		if msg.Err != nil || msg.Image == nil {
			return m, nil
		}
		m.image = msg.Image
		m.cached = msg.Cached
		m.viewport.SetContent(Render(m.lang, *msg.Image))
		m.viewport.GotoTop()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, ui.Keys.PageUp):
			m.viewport.LineUp(m.viewport.Height)
			return m, nil
		case key.Matches(k, ui.Keys.PageDown):
			m.viewport.LineDown(m.viewport.Height)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// ShortHelp lists the bindings shown in the status bar.
func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{ui.Keys.PageDown, ui.Keys.PageUp, ui.Keys.Refresh, ui.Keys.Back}
}

func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s %s:%s", m.lang.Loading, m.name, m.tag)
	}
	if m.image == nil {
		return ""
	}
	return m.viewport.View()
}

// IsCached reports whether the image shown came from the disk cache.
func (m Model) IsCached() bool { return m.cached }

// Render lays out the details of img.
func Render(lang locale.Language, img model.Image) string {
	row := func(label, value string) string {
		if value == "" {
			value = ui.StyleMuted.Render("-")
		}
		return "  " + ui.StyleLabel.Render(label) + value + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(row(lang.Registry, img.Registry))
	b.WriteString(row(lang.Name, img.Name))
	b.WriteString(row(lang.Tag, img.Tag))
	b.WriteString(row(lang.Architecture, img.Architecture))
	b.WriteString(row(lang.Digest, img.Digest))
	b.WriteString(row(lang.Created, formatCreated(img.Created)))
	b.WriteString(row(lang.Size, model.PrettifySize(img.Size)))

	b.WriteString(fmt.Sprintf("\n  %s (%d)\n\n", ui.StyleLabel.UnsetWidth().Render(lang.Layers), len(img.Manifest.Layers)))
	for i, l := range img.Manifest.Layers {
		b.WriteString(fmt.Sprintf("  %3d  %s  %s\n",
			i+1,
			ui.StyleMuted.Render(shortDigest(l.Digest)),
			ui.StyleWarning.Render(model.PrettifySize(l.Size))))
	}

	b.WriteString(fmt.Sprintf("\n  %s\n\n    docker pull %s\n", ui.StyleLabel.UnsetWidth().Render(lang.Pull), img.PullRef()))
	return b.String()
}

func formatCreated(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

func shortDigest(d string) string {
	const keep = len("sha256:") + 12
	if len(d) > keep {
		return d[:keep]
	}
	return d
}
