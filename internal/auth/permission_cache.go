package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const permissionKeyPrefix = "role_permissions:"

// PermissionCache caches resolved role permission sets in Redis with a TTL.
// Sessions embed the permission set at login, so a stale cache only extends
// the staleness window the token model already accepts; the TTL bounds it.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache builds a cache. A nil client or non-positive TTL yields
// a cache that misses on every lookup.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{client: client, ttl: ttl}
}

// Get returns the cached permission set for a role, reporting a miss on any
// error so callers fall through to the database.
func (c *PermissionCache) Get(ctx context.Context, roleName string) ([]string, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.client.Get(ctx, permissionKeyPrefix+roleName).Bytes()
	if err != nil {
		return nil, false
	}
	var permissions []string
	if err := json.Unmarshal(raw, &permissions); err != nil {
		return nil, false
	}
	return permissions, true
}

// Set stores the permission set for a role. Failures are ignored; the cache
// is an optimization, not a source of truth.
func (c *PermissionCache) Set(ctx context.Context, roleName string, permissions []string) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(permissions)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, permissionKeyPrefix+roleName, raw, c.ttl).Err()
}

// Invalidate drops a role's cached permission set, called when a role's
// grants change.
func (c *PermissionCache) Invalidate(ctx context.Context, roleName string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, permissionKeyPrefix+roleName).Err()
}
