package service

import (
	"context"
	"sync"
	"time"
)

// ProductNameLoader lists every active product name in the catalog.
type ProductNameLoader func(ctx context.Context) ([]string, error)

// ProductIndex is an in-memory snapshot of product names used by the
// PRODUCT classification rule. Reads never touch the database. Names are
// compared trimmed and upper-cased, without accent folding, the same way
// the catalog's product lookup compares them.
type ProductIndex struct {
	mu       sync.RWMutex
	names    map[string]struct{}
	loadedAt time.Time

	load ProductNameLoader
	ttl  time.Duration
}

func NewProductIndex(load ProductNameLoader, ttl time.Duration) *ProductIndex {
	return &ProductIndex{names: map[string]struct{}{}, load: load, ttl: ttl}
}

func (p *ProductIndex) Replace(names []string, at time.Time) {
	next := make(map[string]struct{}, len(names))
	for _, n := range names {
		k := NormalizeDescription(n)
		if k != "" {
			next[k] = struct{}{}
		}
	}
	p.mu.Lock()
	p.names = next
	p.loadedAt = at
	p.mu.Unlock()
}

func (p *ProductIndex) HasProduct(normalized string) bool {
	k := NormalizeDescription(normalized)
	p.mu.RLock()
	_, ok := p.names[k]
	p.mu.RUnlock()
	return ok
}

// RefreshIfStale reloads the snapshot when it is older than ttl. On loader
// failure the previous snapshot stays in place.
func (p *ProductIndex) RefreshIfStale(ctx context.Context, now time.Time) error {
	if p.load == nil {
		return nil
	}
	p.mu.RLock()
	fresh := !p.loadedAt.IsZero() && now.Sub(p.loadedAt) < p.ttl
	p.mu.RUnlock()
	if fresh {
		return nil
	}
	return p.Refresh(ctx, now)
}

// Refresh reloads unconditionally.
func (p *ProductIndex) Refresh(ctx context.Context, now time.Time) error {
	if p.load == nil {
		return nil
	}
	names, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.Replace(names, now)
	return nil
}

func (p *ProductIndex) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.names)
}
