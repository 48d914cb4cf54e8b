package detailsview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/ui"
)

func sampleImage() *model.Image {
	return &model.Image{
		Registry:     "registry.example.com",
		Name:         "library/nginx",
		Tag:          "latest",
		Architecture: "amd64",
		Created:      "2024-05-01T10:00:00.123Z",
		Digest:       "0123456789abcdef",
		Size:         6 * 1024 * 1024,
		Manifest: model.ManifestV2{Layers: []model.Layer{
			{Digest: "sha256:aaaaaaaaaaaaaaaaaaaa", Size: 2048},
			{Digest: "sha256:bbbb", Size: 4096},
		}},
	}
}

func newView(t *testing.T) Model {
	t.Helper()
	lang, _, err := locale.Load("en")
	require.NoError(t, err)
	m := New(lang)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func TestShowsLoadedImage(t *testing.T) {
	m := newView(t)
	m.SetLoading("library/nginx", "latest")
	assert.Contains(t, m.View(), "Loading")

	m, _ = m.Update(ui.ImageLoadedMsg{Name: "library/nginx", Tag: "latest", Image: sampleImage(), Cached: true})
	view := m.View()
	assert.Contains(t, view, "amd64")
	assert.Contains(t, view, "6 MB")
	assert.Contains(t, view, "2024-05-01 10:00:00 UTC")
	assert.Contains(t, view, "sha256:aaaaaaaaaaaa")
	assert.NotContains(t, view, "sha256:aaaaaaaaaaaaa")
	assert.Contains(t, view, "docker pull registry.example.com/library/nginx:latest")
	assert.True(t, m.IsCached())
}

func TestIgnoresStaleImage(t *testing.T) {
	m := newView(t)
	m.SetLoading("library/nginx", "1.27")

	m, _ = m.Update(ui.ImageLoadedMsg{Name: "library/nginx", Tag: "latest", Image: sampleImage()})
	assert.Nil(t, m.Image())
	assert.Contains(t, m.View(), "1.27")
}

func TestFormatCreated(t *testing.T) {
	assert.Equal(t, "2024-05-01 10:00:00 UTC", formatCreated("2024-05-01T10:00:00Z"))
	assert.Equal(t, "yesterday", formatCreated("yesterday"))
	assert.Equal(t, "", formatCreated(""))
}

func TestPageKeysScroll(t *testing.T) {
	lang, _, err := locale.Load("en")
	require.NoError(t, err)
	m := New(lang)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	img := sampleImage()
	for i := 0; i < 50; i++ {
		img.Manifest.Layers = append(img.Manifest.Layers, model.Layer{Digest: "sha256:cccc", Size: 1})
	}
	m.SetLoading(img.Name, img.Tag)
	m, _ = m.Update(ui.ImageLoadedMsg{Name: img.Name, Tag: img.Tag, Image: img})
	require.Equal(t, 0, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, m.viewport.YOffset)
}
