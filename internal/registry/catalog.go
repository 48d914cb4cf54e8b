package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/wallforfry/harbor/internal/model"
)

const catalogPageSize = 100

// CatalogPage selects one page of the /v2/_catalog listing.
type CatalogPage struct {
	N    int
	Last string
}

func (p CatalogPage) QueryString() string {
	v := url.Values{}
	if p.N > 0 {
		v.Set("n", strconv.Itoa(p.N))
	} else {
		v.Set("n", strconv.Itoa(catalogPageSize))
	}
	if p.Last != "" {
		v.Set("last", p.Last)
	}
	return "?" + v.Encode()
}

var nextLinkRe = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?next"?`)

// nextLink extracts the target of a rel="next" Link header, if any.
func nextLink(header string) string {
	if m := nextLinkRe.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}

// Catalog returns every repository name, following Link pagination.
func (c *Client) Catalog(ctx context.Context) (model.Catalog, error) {
	var catalog model.Catalog
	target := c.endpoint("/_catalog" + CatalogPage{}.QueryString())
	seen := make(map[string]bool)

	for target != "" {
		if seen[target] {
			return catalog, fmt.Errorf("catalog pagination loops on %s", target)
		}
		seen[target] = true

		header, body, err := c.get(ctx, target, "application/json")
		if err != nil {
			return catalog, fmt.Errorf("get catalog: %w", err)
		}
		var page model.Catalog
		if err := json.Unmarshal(body, &page); err != nil {
			return catalog, fmt.Errorf("decode catalog: %w", err)
		}
		catalog.Repositories = append(catalog.Repositories, page.Repositories...)

		target = ""
		if link := nextLink(header.Get("Link")); link != "" {
			next, err := c.base.Parse(link)
			if err != nil {
				return catalog, fmt.Errorf("parse catalog link %q: %w", link, err)
			}
			target = next.String()
		}
	}
	return catalog, nil
}
