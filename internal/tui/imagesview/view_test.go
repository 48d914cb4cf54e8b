package imagesview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/ops"
	"github.com/wallforfry/harbor/internal/ui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T) Model {
	t.Helper()
	lang, _, err := locale.Load("en")
	require.NoError(t, err)

	m := New(lang)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(ui.CatalogLoadedMsg{Repositories: []model.Repository{
		{Name: "Apple.png", Tags: []string{"v1"}},
		{Name: "banana.jpg", Tags: []string{"v1", "v2"}},
		{Name: "Cat.gif", Tags: []string{}},
	}})
	return m
}

func names(refs []ops.TagRef) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Repository)
	}
	return out
}

func TestLoadedShowsEveryTag(t *testing.T) {
	m := loaded(t)
	shown, total := m.Counts()
	assert.Equal(t, 4, total)
	assert.Equal(t, 4, shown)

	view := m.View()
	assert.Contains(t, view, "banana.jpg")
	assert.Contains(t, view, "Cat.gif")
}

func TestSearchKeyFocusesInput(t *testing.T) {
	m := loaded(t)
	require.False(t, m.IsSearching())

	m, cmd := m.Update(runes("/"))
	assert.True(t, m.IsSearching())
	assert.NotNil(t, cmd, "expected textinput blink cmd after focusing")
	assert.Contains(t, m.View(), "Search")
}

func TestEveryKeystrokeRefilters(t *testing.T) {
	m := loaded(t)
	m, _ = m.Update(runes("/"))

	m, _ = m.Update(runes("a"))
	assert.Equal(t, []string{"Apple.png", "banana.jpg", "banana.jpg", "Cat.gif"}, names(m.VisibleRefs()))

	m, _ = m.Update(runes("n"))
	assert.Equal(t, "an", m.Query())
	assert.Equal(t, []string{"banana.jpg", "banana.jpg"}, names(m.VisibleRefs()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", m.Query())
	shown, total := m.Counts()
	assert.Equal(t, total, shown)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	for _, q := range []string{"cat", "CAT", "Cat"} {
		m := loaded(t)
		m.SetQuery(q)
		assert.Equal(t, []string{"Cat.gif"}, names(m.VisibleRefs()), q)
	}
}

func TestEscKeepsQueryAndReturnsToTable(t *testing.T) {
	m := loaded(t)
	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("apple"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	assert.False(t, m.IsSearching())
	assert.Equal(t, "apple", m.Query())
	assert.Equal(t, []string{"Apple.png"}, names(m.VisibleRefs()))
	assert.Contains(t, m.View(), "1 / 4")
}

func TestEnterOpensSelectedTag(t *testing.T) {
	m := loaded(t)
	m, _ = m.Update(runes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.OpenImageMsg{Name: "banana.jpg", Tag: "v1"}, cmd())
}

func TestEnterOnUntaggedRepositoryIsNoop(t *testing.T) {
	m := loaded(t)
	m.SetQuery("cat")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnterWithNoVisibleRowsIsNoop(t *testing.T) {
	m := loaded(t)
	m.SetQuery("zzz")
	assert.Nil(t, m.SelectedRef())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestCursorClampedAfterFilter(t *testing.T) {
	m := loaded(t)
	for i := 0; i < 3; i++ {
		m, _ = m.Update(runes("j"))
	}
	m.SetQuery("apple")
	ref := m.SelectedRef()
	require.NotNil(t, ref)
	assert.Equal(t, "Apple.png", ref.Repository)
}

func TestLoadError(t *testing.T) {
	lang, _, _ := locale.Load("en")
	m := New(lang)
	m, _ = m.Update(ui.CatalogLoadedMsg{Err: errors.New("connection refused")})
	assert.True(t, strings.Contains(m.View(), "connection refused"))
}

func TestMessagesFollowLanguage(t *testing.T) {
	lang, _, err := locale.Load("fr")
	require.NoError(t, err)

	m := New(lang)
	m, _ = m.Update(ui.CatalogLoadedMsg{Err: errors.New("connection refused")})
	assert.Contains(t, m.View(), lang.Retry)

	m = New(lang)
	m, _ = m.Update(ui.CatalogLoadedMsg{Repositories: []model.Repository{}})
	assert.Contains(t, m.View(), lang.NoImages)
	assert.Contains(t, m.View(), lang.Refresh)

	m = New(lang)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	m, _ = m.Update(ui.CatalogLoadedMsg{
		Repositories: []model.Repository{{Name: "app", Tags: []string{"v1"}}},
		Partial:      errors.New("repository db: HTTP 500"),
	})
	assert.Contains(t, m.View(), lang.PartialLoad)
}
