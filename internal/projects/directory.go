// Package projects resolves project metadata and imports projects from disk.
package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/panecode/internal/cachemanager"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/projects/domain"
)

// DefaultNameTTL is how long a display name stays cached.
const DefaultNameTTL = 10 * time.Minute

// Directory serves project records. Display names go through a read-through cache.
type Directory struct {
	repo  domain.ProjectRepository
	names *cachemanager.ReadThroughCache[string, string, string]
	ttl   time.Duration
}

// NewDirectory creates a Directory. A nil cache disables caching.
func NewDirectory(repo domain.ProjectRepository, cache cachemanager.CacheManager[string, string], ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultNameTTL
	}
	d := &Directory{repo: repo, ttl: ttl}
	d.names = cachemanager.NewReadThroughCache(cache, d.loadName, cache == nil)
	return d
}

func (d *Directory) loadName(ctx context.Context, projectID string) (string, error) {
	p, err := d.repo.FindByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	return p.Name(), nil
}

// DisplayName returns the name of projectID. A missing project is reported as
// ErrProjectNotFound; callers treat any error as an empty name.
func (d *Directory) DisplayName(ctx context.Context, projectID string) (string, error) {
	name, err := d.names.GetWithRefresh(ctx, projectID, projectID, d.ttl)
	if err != nil {
		return "", fmt.Errorf("display name of %s: %w", projectID, err)
	}
	return name, nil
}

// Resolve finds a project by id, falling back to its name.
func (d *Directory) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	p, err := d.repo.FindByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}
	return d.repo.FindByName(ctx, ref)
}

// List returns every project ordered by name.
func (d *Directory) List(ctx context.Context) ([]*domain.Project, error) {
	return d.repo.List(ctx)
}

// Rename changes a project's display name and drops the cached one.
func (d *Directory) Rename(ctx context.Context, projectID, name string) error {
	p, err := d.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	p.Rename(name)
	if err := d.repo.Save(ctx, p); err != nil {
		return err
	}
	if err := d.names.Invalidate(ctx, projectID); err != nil {
		log.WarnErr(log.CatCache, "name cache invalidation failed", err, "project", projectID)
	}
	return nil
}
