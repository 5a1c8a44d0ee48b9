package redis

import (
	"context"
	"encoding/json"
	"time"

	"agenda-api/domain/dto"
	"agenda-api/pkg/logger"
)

const personaKeyPrefix = "persona:view:"

// PersonaCache keeps resolved persona views keyed by email. A view embeds
// friend summaries of other personas, so any write anywhere invalidates the
// whole keyspace rather than a single entry. Redis being unreachable only
// degrades to warnings; the store stays authoritative.
type PersonaCache struct {
	client *RedisClient
	ttl    time.Duration
}

func NewPersonaCache(client *RedisClient, ttl time.Duration) *PersonaCache {
	return &PersonaCache{client: client, ttl: ttl}
}

// GetView returns the cached view for email, or nil on miss or cache error.
func (c *PersonaCache) GetView(ctx context.Context, email string) *dto.PersonaResponse {
	raw, err := c.client.Get(ctx, personaKeyPrefix+email)
	if err != nil {
		if !IsCacheMiss(err) {
			logger.CacheWarn("get_failed", "Persona cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	var view dto.PersonaResponse
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		logger.CacheWarn("decode_failed", "Dropping undecodable persona cache entry", map[string]interface{}{"email": email})
		return nil
	}

	logger.Cache("hit", "Persona view served from cache", map[string]interface{}{"email": email})
	return &view
}

func (c *PersonaCache) SetView(ctx context.Context, email string, view *dto.PersonaResponse) {
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, personaKeyPrefix+email, string(raw), c.ttl); err != nil {
		logger.CacheWarn("set_failed", "Persona cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// InvalidateAll drops every cached view.
func (c *PersonaCache) InvalidateAll(ctx context.Context) {
	if err := c.client.DeleteByPrefix(ctx, personaKeyPrefix); err != nil {
		logger.CacheWarn("invalidate_failed", "Persona cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
