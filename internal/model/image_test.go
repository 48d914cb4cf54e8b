package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettifySize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "zero", size: 0, want: "0 B"},
		{name: "exactly one kilobyte stays bytes", size: 1024, want: "1024 B"},
		{name: "just above a kilobyte", size: 1025, want: "1 KB"},
		{name: "five megabytes", size: 5 * 1024 * 1024, want: "5 MB"},
		{name: "two gigabytes", size: 2 * 1024 * 1024 * 1024, want: "2 GB"},
		{name: "clamped at last unit", size: 3 << 50, want: "3072 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrettifySize(tt.size))
		})
	}
}

func TestImagePullRef(t *testing.T) {
	img := Image{Registry: "registry.example.com:5000", Name: "library/nginx", Tag: "1.27"}
	assert.Equal(t, "registry.example.com:5000/library/nginx:1.27", img.PullRef())

	img.Registry = ""
	assert.Equal(t, "library/nginx:1.27", img.PullRef())
}

func TestManifestTotalSize(t *testing.T) {
	m := ManifestV2{
		Config: Layer{Size: 100},
		Layers: []Layer{{Size: 1000}, {Size: 24}},
	}
	assert.Equal(t, int64(1124), m.TotalSize())
}

func TestShortDigest(t *testing.T) {
	img := Image{Digest: "sha256:0123456789abcdef0123"}
	assert.Equal(t, "0123456789ab", img.ShortDigest())
	assert.Equal(t, "abc", Image{Digest: "abc"}.ShortDigest())
}
