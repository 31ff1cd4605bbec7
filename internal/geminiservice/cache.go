package geminiservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// CachedGenerator wraps a Generator and keeps successful replies in an
// in-memory LRU, keyed by prompt and settings.
type CachedGenerator struct {
	next  Generator
	cache *expirable.LRU[string, string]
}

// WithCache returns next unchanged when size is zero or less.
func WithCache(next Generator, size int, ttl time.Duration) Generator {
	if size <= 0 {
		return next
	}
	return NewCachedGenerator(next, size, ttl)
}

// NewCachedGenerator creates a cache holding up to size replies for ttl each.
func NewCachedGenerator(next Generator, size int, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		next:  next,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Generate checks the cache first and only calls the wrapped Generator on a miss.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string, settings GenerationSettings) (string, error) {
	key := cacheKey(prompt, settings)
	if reply, ok := c.cache.Get(key); ok {
		zerolog.Ctx(ctx).Debug().Str("cache_key", key[:12]).Msg("Plan cache hit")
		return reply, nil
	}

	reply, err := c.next.Generate(ctx, prompt, settings)
	if err != nil {
		return "", err
	}

	c.cache.Add(key, reply)
	return reply, nil
}

// Len reports how many replies are cached.
func (c *CachedGenerator) Len() int {
	return c.cache.Len()
}

func cacheKey(prompt string, s GenerationSettings) string {
	h := sha256.New()
	fmt.Fprintf(h, "%g|%g|%d|%d|", s.Temperature, s.TopP, s.TopK, s.MaxOutputTokens)
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
