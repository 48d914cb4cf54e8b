package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/harbor/internal/model"
)

var repos = []model.Repository{
	{Name: "Apple.png", Tags: []string{"v1"}},
	{Name: "banana.jpg", Tags: []string{"v1", "v2"}},
	{Name: "Cat.gif"},
}

func lines(s string) [][]string {
	var out [][]string
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		out = append(out, strings.Fields(l))
	}
	return out
}

func TestCatalogFilters(t *testing.T) {
	tests := []struct {
		query string
		want  [][]string
	}{
		{"an", [][]string{{"banana.jpg", "v1"}, {"banana.jpg", "v2"}}},
		{"CAT", [][]string{{"Cat.gif", "-"}}},
		{"", [][]string{{"Apple.png", "v1"}, {"banana.jpg", "v1"}, {"banana.jpg", "v2"}, {"Cat.gif", "-"}}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Catalog(&buf, false, 80, repos, tt.query)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			if diff := cmp.Diff(tt.want, lines(buf.String())); diff != "" {
				t.Errorf("catalog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalogNoMatch(t *testing.T) {
	var buf bytes.Buffer
	n, err := Catalog(&buf, false, 80, repos, "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestImage(t *testing.T) {
	img := model.Image{
		Registry: "registry.example.com",
		Name:     "library/nginx",
		Tag:      "latest",
		Size:     3 * 1024 * 1024,
		Manifest: model.ManifestV2{Layers: []model.Layer{{Digest: "sha256:abc", Size: 2048}}},
	}
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, false, 80, img))
	out := buf.String()
	assert.Contains(t, out, "docker pull registry.example.com/library/nginx:latest")
	assert.Contains(t, out, "3 MB")
	assert.Contains(t, out, "sha256:abc")
	assert.Contains(t, out, "2 KB")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []byte(`{"schemaVersion":2,"layers":[]}`), false))
	assert.Contains(t, buf.String(), "\"schemaVersion\": 2")
	assert.Contains(t, buf.String(), "\n")
}
