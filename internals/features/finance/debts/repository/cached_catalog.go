package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"cobranza_backend/internals/features/finance/debts/service"
)

// CachedCatalog memoizes lookups, misses included, for ttl. Resolution is
// read-only so a stale hit at worst links a line the same way the database
// did a moment ago.
type CachedCatalog struct {
	next  service.CatalogLookup
	cache *expirable.LRU[string, cachedID]
}

type cachedID struct {
	id *uuid.UUID
}

func NewCachedCatalog(next service.CatalogLookup, size int, ttl time.Duration) *CachedCatalog {
	if size <= 0 {
		size = 1024
	}
	return &CachedCatalog{
		next:  next,
		cache: expirable.NewLRU[string, cachedID](size, nil, ttl),
	}
}

func (c *CachedCatalog) Len() int { return c.cache.Len() }

func (c *CachedCatalog) Purge() { c.cache.Purge() }

func (c *CachedCatalog) lookup(key string, fn func() (*uuid.UUID, error)) (*uuid.UUID, error) {
	if v, ok := c.cache.Get(key); ok {
		return copyID(v.id), nil
	}
	id, err := fn()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cachedID{id: copyID(id)})
	return id, nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (c *CachedCatalog) EnrollmentFeeByYear(ctx context.Context, year int) (*uuid.UUID, error) {
	return c.lookup("ef|"+strconv.Itoa(year), func() (*uuid.UUID, error) {
		return c.next.EnrollmentFeeByYear(ctx, year)
	})
}

func (c *CachedCatalog) MonthlyDueByDescription(ctx context.Context, fragment string) (*uuid.UUID, error) {
	return c.lookup("md|"+fragment, func() (*uuid.UUID, error) {
		return c.next.MonthlyDueByDescription(ctx, fragment)
	})
}

func (c *CachedCatalog) ProductByName(ctx context.Context, name string) (*uuid.UUID, error) {
	return c.lookup("pr|"+name, func() (*uuid.UUID, error) {
		return c.next.ProductByName(ctx, name)
	})
}

func (c *CachedCatalog) ConceptByDescription(ctx context.Context, fragment string) (*uuid.UUID, error) {
	return c.lookup("co|"+fragment, func() (*uuid.UUID, error) {
		return c.next.ConceptByDescription(ctx, fragment)
	})
}

func (c *CachedCatalog) SubConceptByDescription(ctx context.Context, description string) (*uuid.UUID, error) {
	return c.lookup("sc|"+description, func() (*uuid.UUID, error) {
		return c.next.SubConceptByDescription(ctx, description)
	})
}

func (c *CachedCatalog) ConceptBySubConcept(ctx context.Context, subConceptID uuid.UUID) (*uuid.UUID, error) {
	return c.lookup("cs|"+subConceptID.String(), func() (*uuid.UUID, error) {
		return c.next.ConceptBySubConcept(ctx, subConceptID)
	})
}
