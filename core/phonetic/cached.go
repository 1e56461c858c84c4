package phonetic

import "github.com/FocuswithJustin/JuniperPhonetic/core/cache"

// Cached memoizes another encoder in an LRU cache. It is safe for
// concurrent use when the wrapped encoder is.
type Cached struct {
	enc   StringEncoder
	codes cache.Cache[string, string]
}

// NewCached wraps enc with an LRU of at most size entries. A size of zero
// or less uses the cache package default.
func NewCached(enc StringEncoder, size int) *Cached {
	cfg := cache.DefaultConfig()
	if size > 0 {
		cfg.MaxSize = size
	}
	return &Cached{
		enc:   enc,
		codes: cache.NewLRUCache[string, string](cfg),
	}
}

// Encode returns the memoized code for word.
func (c *Cached) Encode(word string) string {
	if code, ok := c.codes.Get(word); ok {
		return code
	}
	code := c.enc.Encode(word)
	c.codes.Put(word, code)
	return code
}

// Stats reports cache hits and misses.
func (c *Cached) Stats() cache.Stats {
	return c.codes.Stats()
}
