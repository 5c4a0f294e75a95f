package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Balanced is a cached balancing outcome
type Balanced struct {
	Equation     string
	Balanced     string
	Coefficients []int
	Elements     []string
}

// ResultCache caches balancing results by normalized equation text
type ResultCache struct {
	cache *Cache
}

// NewResultCache creates a result cache holding at most maxItems entries
// for ttl each
func NewResultCache(maxItems int, ttl time.Duration) *ResultCache {
	return &ResultCache{cache: New(Config{MaxItems: maxItems, TTL: ttl})}
}

// Get returns a copy of the cached result for equation
func (r *ResultCache) Get(equation string) (*Balanced, bool) {
	v, ok := r.cache.Get(resultKey(equation))
	if !ok {
		return nil, false
	}
	b, ok := v.(*Balanced)
	if !ok {
		return nil, false
	}
	return b.clone(), true
}

// Set stores a copy of res under equation
func (r *ResultCache) Set(equation string, res *Balanced) {
	r.cache.Set(resultKey(equation), res.clone())
}

// Size returns the number of cached results
func (r *ResultCache) Size() int {
	return r.cache.Size()
}

// Stats returns hit and miss counters
func (r *ResultCache) Stats() (hits, misses int64, hitRate float64) {
	return r.cache.Stats()
}

// Clear drops all results
func (r *ResultCache) Clear() {
	r.cache.Clear()
}

// Close stops the background cleanup
func (r *ResultCache) Close() {
	r.cache.Close()
}

func (b *Balanced) clone() *Balanced {
	c := *b
	c.Coefficients = append([]int(nil), b.Coefficients...)
	c.Elements = append([]string(nil), b.Elements...)
	return &c
}

// resultKey hashes the equation with every whitespace run folded to one
// space
func resultKey(equation string) string {
	normalized := strings.Join(strings.Fields(equation), " ")
	hash := sha256.Sum256([]byte(normalized))
	return "balance:" + hex.EncodeToString(hash[:16])
}
