package model

import (
	"fmt"
	"strings"
)

// Catalog is the response of the /v2/_catalog endpoint.
type Catalog struct {
	Repositories []string `json:"repositories"`
}

// Repository is the response of the /v2/<name>/tags/list endpoint.
type Repository struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Layer is one filesystem layer of a schema 2 manifest.
type Layer struct {
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	Digest    string `json:"digest"`
}

// ManifestV2 holds the fields read from a schema 2 image manifest.
type ManifestV2 struct {
	SchemaVersion int     `json:"schemaVersion"`
	MediaType     string  `json:"mediaType"`
	Config        Layer   `json:"config"`
	Layers        []Layer `json:"layers"`
}

// ManifestV1Info holds the fields only a schema 1 manifest carries.
type ManifestV1Info struct {
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	Architecture string `json:"architecture"`
	Created      string `json:"created"`
}

// Image is everything shown on the details page of an image tag.
type Image struct {
	Registry     string     `json:"registry"`
	Name         string     `json:"name"`
	Tag          string     `json:"tag"`
	Architecture string     `json:"architecture"`
	Created      string     `json:"created"`
	Digest       string     `json:"digest"`
	Size         int64      `json:"size"`
	Manifest     ManifestV2 `json:"manifest"`
}

// PullRef returns the reference to give to docker pull.
func (i Image) PullRef() string {
	if i.Registry == "" {
		return fmt.Sprintf("%s:%s", i.Name, i.Tag)
	}
	return fmt.Sprintf("%s/%s:%s", i.Registry, i.Name, i.Tag)
}

// ShortDigest returns the first 12 hex characters of the digest.
func (i Image) ShortDigest() string {
	d := strings.TrimPrefix(i.Digest, "sha256:")
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// TotalSize sums the layer sizes and the config blob size.
func (m ManifestV2) TotalSize() int64 {
	size := m.Config.Size
	for _, l := range m.Layers {
		size += l.Size
	}
	return size
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// PrettifySize renders a byte count with integer division by 1024,
// stepping up a unit only while the value is strictly above 1024.
func PrettifySize(size int64) string {
	i := 0
	for size > 1024 && i < len(sizeUnits)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%d %s", size, sizeUnits[i])
}
