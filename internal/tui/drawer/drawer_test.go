package drawer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/harbor/internal/locale"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newDrawer(t *testing.T) Model {
	t.Helper()
	lang, _, err := locale.Load("en")
	require.NoError(t, err)
	return New(lang)
}

func TestTriggerIgnoredBeforeActivate(t *testing.T) {
	m := newDrawer(t)
	m, _ = m.Update(keyMsg("m"))
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.View())
}

func TestTriggerTogglesAfterActivate(t *testing.T) {
	m := newDrawer(t)
	m.Activate()
	require.True(t, m.IsActive())

	m, _ = m.Update(keyMsg("m"))
	assert.True(t, m.IsOpen())
	assert.True(t, strings.Contains(m.View(), "About"))

	m, _ = m.Update(keyMsg("m"))
	assert.False(t, m.IsOpen())

	m, _ = m.Update(keyMsg("m"))
	m, _ = m.Update(keyMsg("esc"))
	assert.False(t, m.IsOpen())
}

func TestEnterNavigates(t *testing.T) {
	m := newDrawer(t)
	m.Activate()
	m, _ = m.Update(keyMsg("m"))
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, PageSettings, m.Selected())

	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.False(t, m.IsOpen())
	assert.Equal(t, NavigateMsg{Page: PageSettings}, cmd())
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newDrawer(t)
	m.Activate()
	m, _ = m.Update(keyMsg("m"))
	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, PageImages, m.Selected())
	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	assert.Equal(t, PageCredits, m.Selected())
}
