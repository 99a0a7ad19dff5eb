package enrich

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relaykit/contact-relay/internal/contacts"
)

const defaultGlossTTL = 24 * time.Hour

// GlossCache memoizes explanations in Redis keyed by (raw value, code).
// Glosses are opaque cacheable text, so a stale entry is harmless. All
// cache failures are treated as misses.
type GlossCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGlossCache wraps a Redis client. Returns nil when client is nil so a
// missing cache stays a simple nil check for callers.
func NewGlossCache(client *redis.Client, ttl time.Duration) *GlossCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultGlossTTL
	}
	return &GlossCache{client: client, ttl: ttl}
}

// Get returns a cached gloss and whether one was found.
func (c *GlossCache) Get(ctx context.Context, original string, code contacts.RejectionCode) (string, bool) {
	if c == nil {
		return "", false
	}
	value, err := c.client.Get(ctx, glossKey(original, code)).Result()
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Set stores a gloss, ignoring failures.
func (c *GlossCache) Set(ctx context.Context, original string, code contacts.RejectionCode, gloss string) {
	if c == nil || gloss == "" {
		return
	}
	c.client.Set(ctx, glossKey(original, code), gloss, c.ttl)
}

func glossKey(original string, code contacts.RejectionCode) string {
	sum := sha256.Sum256([]byte(original + "|" + string(code)))
	return "gloss:" + hex.EncodeToString(sum[:16])
}
