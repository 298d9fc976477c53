// Package catalog serves mission definitions through a read-through cache.
// Definitions are read-mostly; the scheduler resolves them on every tick, so
// lookups within the TTL never touch the database.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/replantlab/missiond/internal/domain"
	"github.com/replantlab/missiond/internal/repository"
)

// Provider is the catalog surface the services consume
type Provider interface {
	GetDefinition(ctx context.Context, id int64) (*domain.MissionDefinition, error)
	ListActiveByCategory(ctx context.Context, category domain.TriggerCategory) ([]domain.MissionDefinition, error)
	CreateCustomDefinition(ctx context.Context, def *domain.MissionDefinition) (int64, error)
}

// CachedCatalog wraps the catalog repository with expiring LRU caches: one
// keyed by definition id, one by trigger category.
type CachedCatalog struct {
	repo  repository.Catalog
	defs  *expirable.LRU[int64, *domain.MissionDefinition]
	lists *expirable.LRU[domain.TriggerCategory, []domain.MissionDefinition]
}

// New creates a CachedCatalog with the given cache size and TTL
func New(repo repository.Catalog, size int, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		repo:  repo,
		defs:  expirable.NewLRU[int64, *domain.MissionDefinition](size, nil, ttl),
		lists: expirable.NewLRU[domain.TriggerCategory, []domain.MissionDefinition](len(domain.TriggerCategories), nil, ttl),
	}
}

// GetDefinition returns the definition, from cache when fresh
func (c *CachedCatalog) GetDefinition(ctx context.Context, id int64) (*domain.MissionDefinition, error) {
	if def, ok := c.defs.Get(id); ok {
		return def, nil
	}

	def, err := c.repo.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}

	c.defs.Add(id, def)
	return def, nil
}

// ListActiveByCategory returns the active definitions for a category,
// from cache when fresh
func (c *CachedCatalog) ListActiveByCategory(ctx context.Context, category domain.TriggerCategory) ([]domain.MissionDefinition, error) {
	if defs, ok := c.lists.Get(category); ok {
		return defs, nil
	}

	defs, err := c.repo.ListActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	c.lists.Add(category, defs)
	for i := range defs {
		c.defs.Add(defs[i].ID, &defs[i])
	}

	return defs, nil
}

// CreateCustomDefinition persists a user-authored definition. Custom
// definitions are never time-triggered, so the category lists stay valid;
// the new definition is primed into the id cache.
func (c *CachedCatalog) CreateCustomDefinition(ctx context.Context, def *domain.MissionDefinition) (int64, error) {
	if def.TriggerCategory != nil {
		return 0, fmt.Errorf("%w: custom missions cannot be time-triggered", domain.ErrInvalidInput)
	}

	id, err := c.repo.CreateCustomDefinition(ctx, def)
	if err != nil {
		return 0, err
	}

	def.ID = id
	def.Custom = true
	def.Active = true
	c.defs.Add(id, def)

	return id, nil
}
