package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity is the image-description cache size used when a
// caller does not configure one.
const DefaultCacheCapacity = 1000

// ImageDescriptionCache memoizes vision-model descriptions keyed by the
// SHA-256 of the image content. Identical image bytes always map to the
// same entry, regardless of file name or containing document, so a logo
// repeated across fifty slides costs one vision call.
//
// The cache is bounded: once capacity is reached the least recently
// used entry is evicted. All methods are safe for concurrent use.
type ImageDescriptionCache struct {
	cache    *lru.Cache[string, string]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Size     int
	Capacity int
}

// NewImageDescriptionCache creates a cache holding up to capacity
// descriptions.
func NewImageDescriptionCache(capacity int) (*ImageDescriptionCache, error) {
	if capacity <= 0 {
		return nil, errors.New("cache capacity must be positive")
	}
	c, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &ImageDescriptionCache{cache: c, capacity: capacity}, nil
}

// Get returns the cached description for the image bytes, if present.
// A hit marks the entry as most recently used.
func (c *ImageDescriptionCache) Get(image []byte) (string, bool) {
	desc, ok := c.cache.Get(contentKey(image))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return desc, ok
}

// Put stores a description for the image bytes, evicting the least
// recently used entry if the cache is full.
func (c *ImageDescriptionCache) Put(image []byte, description string) {
	c.cache.Add(contentKey(image), description)
}

// Stats returns hit/miss counters and current occupancy.
func (c *ImageDescriptionCache) Stats() CacheStats {
	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Size:     c.cache.Len(),
		Capacity: c.capacity,
	}
}

func contentKey(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
