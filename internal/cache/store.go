package cache

import (
	"context"
	"fmt"
	"time"
)

// Collection keys are refreshed asynchronously and expire on their own;
// per-entity simple views are pinned until an update or delete clears them.
const CollectionTTL = time.Hour

// Store is the key/value cache behind entity views. Implementations
// serialize values as JSON.
type Store interface {
	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)
	// GetJSON unmarshals the cached value into dest. Returns found=false
	// on a miss.
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	// SetJSON marshals value under key. A zero ttl pins the key.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}

// SimpleViewKey is the cache key for one entity's simple view
func SimpleViewKey(entityType, uid string) string {
	return fmt.Sprintf("%s_%s_simple_dict", entityType, uid)
}

// Collection cache keys
const (
	KeyUsers     = "users"
	KeyCompanies = "companies"
	KeySoftwares = "softwares"
	KeyStacks    = "stacks"
)
