package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CachedLookup оборачивает Lookup TTL-кэшем, чтобы вставка работ из
// справочника не ходила в базу на каждое обращение. Часы инжектируются
// конструктором, чтобы тесты управляли временем.
type CachedLookup struct {
	inner Lookup
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	works     map[uuid.UUID]workEntry
	materials map[uuid.UUID]materialsEntry
}

type workEntry struct {
	work      *Work
	expiresAt time.Time
}

type materialsEntry struct {
	materials []WorkMaterial
	expiresAt time.Time
}

func NewCachedLookup(inner Lookup, ttl time.Duration, now func() time.Time) *CachedLookup {
	if now == nil {
		now = time.Now
	}
	return &CachedLookup{
		inner:     inner,
		ttl:       ttl,
		now:       now,
		works:     make(map[uuid.UUID]workEntry),
		materials: make(map[uuid.UUID]materialsEntry),
	}
}

func (c *CachedLookup) Work(ctx context.Context, id uuid.UUID) (*Work, error) {
	c.mu.RLock()
	entry, ok := c.works[id]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.work, nil
	}

	work, err := c.inner.Work(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.works[id] = workEntry{work: work, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return work, nil
}

func (c *CachedLookup) WorkMaterials(ctx context.Context, id uuid.UUID) ([]WorkMaterial, error) {
	c.mu.RLock()
	entry, ok := c.materials[id]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.materials, nil
	}

	materials, err := c.inner.WorkMaterials(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.materials[id] = materialsEntry{materials: materials, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return materials, nil
}

// Invalidate сбрасывает кэш по работе после правки справочника.
func (c *CachedLookup) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.works, id)
	delete(c.materials, id)
	c.mu.Unlock()
}

func (c *CachedLookup) InvalidateAll() {
	c.mu.Lock()
	c.works = make(map[uuid.UUID]workEntry)
	c.materials = make(map[uuid.UUID]materialsEntry)
	c.mu.Unlock()
}
