package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wallforfry/harbor/internal/model"
)

// Tags returns the tags of a repository, sorted ascending.
func (c *Client) Tags(ctx context.Context, name string) (model.Repository, error) {
	_, body, err := c.get(ctx, c.endpoint("/"+escapeName(name)+"/tags/list"), "application/json")
	if err != nil {
		return model.Repository{Name: name}, fmt.Errorf("list tags of %s: %w", name, err)
	}

	var repo model.Repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return model.Repository{Name: name}, fmt.Errorf("decode tags of %s: %w", name, err)
	}
	if repo.Name == "" {
		repo.Name = name
	}
	if repo.Tags == nil {
		repo.Tags = []string{}
	}
	sort.Strings(repo.Tags)
	return repo, nil
}
