package seed

import (
	"context"
	"strings"
	"sync"

	"github.com/driveline-ed/contentpipe/internal/platform/cache"
)

// Catalog resolves parent rows by natural code, memoizing in process and
// optionally through Redis so repeated seed invocations skip the lookups.
// The cache only ever holds positive results: a missing parent is an
// operator error that must be re-checked every run.
type Catalog struct {
	store Store
	redis *cache.Cache

	mu   sync.Mutex
	memo map[string]Parents
}

// NewCatalog creates a catalog over a store. redis may be nil.
func NewCatalog(store Store, redis *cache.Cache) *Catalog {
	return &Catalog{store: store, redis: redis, memo: make(map[string]Parents)}
}

// Resolve returns the parent IDs for a jurisdiction/program/course chain.
func (c *Catalog) Resolve(ctx context.Context, jCode, programCode, courseCode string) (Parents, error) {
	key := strings.Join([]string{jCode, programCode, courseCode}, "/")

	c.mu.Lock()
	if p, ok := c.memo[key]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	if p, ok := c.fromRedis(ctx, key); ok {
		c.remember(key, p)
		return p, nil
	}

	p, err := c.store.ResolveParents(ctx, jCode, programCode, courseCode)
	if err != nil {
		return Parents{}, err
	}

	c.remember(key, p)
	c.toRedis(ctx, key, p)
	return p, nil
}

func (c *Catalog) remember(key string, p Parents) {
	c.mu.Lock()
	c.memo[key] = p
	c.mu.Unlock()
}

func (c *Catalog) fromRedis(ctx context.Context, key string) (Parents, bool) {
	if c.redis == nil {
		return Parents{}, false
	}
	packed := c.redis.GetID(ctx, key)
	parts := strings.Split(packed, "|")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Parents{}, false
	}
	return Parents{JurisdictionID: parts[0], ProgramID: parts[1], CourseID: parts[2]}, true
}

func (c *Catalog) toRedis(ctx context.Context, key string, p Parents) {
	if c.redis == nil {
		return
	}
	c.redis.PutID(ctx, key, strings.Join([]string{p.JurisdictionID, p.ProgramID, p.CourseID}, "|"))
}
