package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/wallforfry/harbor/internal/model"
)

// ManifestAccept returns the Accept header for a manifest schema version.
func ManifestAccept(version int) string {
	return fmt.Sprintf("application/vnd.docker.distribution.manifest.v%d+json", version)
}

func (c *Client) manifestURL(name, tag string) string {
	return c.endpoint(fmt.Sprintf("/%s/manifests/%s", escapeName(name), escapeName(tag)))
}

// RawManifest returns the manifest body for the given schema version.
func (c *Client) RawManifest(ctx context.Context, name, tag string, version int) ([]byte, error) {
	_, body, err := c.get(ctx, c.manifestURL(name, tag), ManifestAccept(version))
	if err != nil {
		return nil, fmt.Errorf("get manifest %s:%s: %w", name, tag, err)
	}
	return body, nil
}

// Image gathers the details of name:tag. Layers, size and digest come from
// the schema 2 manifest. Architecture and creation date come from the
// schema 1 manifest history, or from the config blob when the registry no
// longer serves schema 1.
func (c *Client) Image(ctx context.Context, name, tag string) (model.Image, error) {
	header, body, err := c.get(ctx, c.manifestURL(name, tag), ManifestAccept(2))
	if err != nil {
		return model.Image{}, fmt.Errorf("get image %s:%s: %w", name, tag, err)
	}

	img := model.Image{
		Registry: c.Host(),
		Name:     name,
		Tag:      tag,
		Digest:   strings.TrimPrefix(header.Get("Docker-Content-Digest"), "sha256:"),
	}
	if err := json.Unmarshal(body, &img.Manifest); err != nil {
		return model.Image{}, fmt.Errorf("decode manifest %s:%s: %w", name, tag, err)
	}
	img.Size = img.Manifest.TotalSize()

	if v1, err := c.RawManifest(ctx, name, tag, 1); err == nil {
		info := parseV1(v1)
		img.Architecture = info.Architecture
		img.Created = info.Created
	} else if !errors.Is(err, ErrNotFound) {
		c.log.Debug("schema 1 manifest unavailable", zap.String("image", name), zap.String("tag", tag), zap.Error(err))
	}

	if (img.Architecture == "" || img.Created == "") && img.Manifest.Config.Digest != "" {
		arch, created, err := c.configInfo(ctx, name, img.Manifest.Config.Digest)
		if err != nil {
			c.log.Debug("config blob unavailable", zap.String("image", name), zap.Error(err))
		} else {
			if img.Architecture == "" {
				img.Architecture = arch
			}
			if img.Created == "" {
				img.Created = created
			}
		}
	}
	return img, nil
}

// parseV1 reads the fields of a schema 1 manifest. The creation date lives
// in history[0].v1Compatibility, which is itself a JSON document in a string.
func parseV1(body []byte) model.ManifestV1Info {
	compat := gjson.GetBytes(body, "history.0.v1Compatibility").String()
	return model.ManifestV1Info{
		Name:         gjson.GetBytes(body, "name").String(),
		Tag:          gjson.GetBytes(body, "tag").String(),
		Architecture: gjson.GetBytes(body, "architecture").String(),
		Created:      gjson.Get(compat, "created").String(),
	}
}

func (c *Client) configInfo(ctx context.Context, name, digest string) (string, string, error) {
	_, body, err := c.get(ctx, c.endpoint(fmt.Sprintf("/%s/blobs/%s", escapeName(name), digest)), "")
	if err != nil {
		return "", "", err
	}
	return gjson.GetBytes(body, "architecture").String(), gjson.GetBytes(body, "created").String(), nil
}
