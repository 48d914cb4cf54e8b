package ops

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/wallforfry/harbor/internal/model"
)

// TagLister lists the tags of one repository.
type TagLister interface {
	Tags(ctx context.Context, name string) (model.Repository, error)
}

// LoadRepositories fetches the tags of every named repository with at most
// limit requests in flight. The result keeps the order of names. A
// repository whose tags cannot be listed is kept with no tags, and its
// error is collected into the returned *multierror.Error.
func LoadRepositories(ctx context.Context, lister TagLister, names []string, limit int) ([]model.Repository, error) {
	if limit < 1 {
		limit = 1
	}
	repos := make([]model.Repository, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			repo, err := lister.Tags(gctx, name)
			if err != nil {
				repos[i] = model.Repository{Name: name, Tags: []string{}}
				errs[i] = fmt.Errorf("repository %s: %w", name, err)
				return nil
			}
			repos[i] = repo
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return repos, merr.ErrorOrNil()
}

// TagRef is one repository/tag pair.
type TagRef struct {
	Repository string
	Tag        string
}

// Flatten expands repositories into one entry per tag. A repository with
// no tags yields a single entry with an empty tag.
func Flatten(repos []model.Repository) []TagRef {
	var refs []TagRef
	for _, r := range repos {
		if len(r.Tags) == 0 {
			refs = append(refs, TagRef{Repository: r.Name})
			continue
		}
		for _, t := range r.Tags {
			refs = append(refs, TagRef{Repository: r.Name, Tag: t})
		}
	}
	return refs
}
