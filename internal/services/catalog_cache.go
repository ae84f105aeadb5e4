package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"weddingverse/internal/models"
)

// CatalogCache keeps the default catalog sample in memory so zero-criteria
// requests and ranking-failure fallbacks do not re-scan the catalog on every
// call. Entries expire on TTL; the background stats job re-warms them.
type CatalogCache struct {
	cache *cache.Cache
}

// NewCatalogCache creates a catalog cache with the given entry TTL
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func sampleKey(limit int) string {
	return fmt.Sprintf("default_sample:%d", limit)
}

// DefaultSample returns the cached sample for the given limit, if present
func (c *CatalogCache) DefaultSample(limit int) ([]models.MatchResult, bool) {
	value, found := c.cache.Get(sampleKey(limit))
	if !found {
		return nil, false
	}
	docs, ok := value.([]models.MatchResult)
	return docs, ok
}

// SetDefaultSample stores a fresh sample for the given limit
func (c *CatalogCache) SetDefaultSample(limit int, docs []models.MatchResult) {
	c.cache.Set(sampleKey(limit), docs, cache.DefaultExpiration)
}

// Flush drops all cached samples
func (c *CatalogCache) Flush() {
	c.cache.Flush()
}
