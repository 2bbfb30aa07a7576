package views

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/pkg/errors"
	"teamnet/pkg/logger"
)

// Graph is the slice of the repository the view builder reads from
type Graph interface {
	NodeView(ctx context.Context, label graph.Label, uid string) (*graph.NodeRecord, error)
	Neighbors(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel) ([]string, error)
	ListUIDs(ctx context.Context, label graph.Label) ([]string, error)
	ListPostUIDs(ctx context.Context, skip, limit int) ([]string, error)
	UnopenedTaggedPosts(ctx context.Context, userUID string) ([]string, error)
	CompanyStacks(ctx context.Context, companyUID string) ([]string, error)
	StackCompanies(ctx context.Context, stackUID string) ([]string, error)
}

// Builder assembles entity views. Simple views are read through the cache
// and pinned there until an update invalidates them; full views read the
// entity itself from the graph and splice in the cached simple views of
// its one-hop neighbors. Expansion depth is always exactly one, so cycles
// in the graph (PART_OF chains, mutual KNOWS) cannot recurse.
type Builder struct {
	graph  Graph
	cache  cache.Store
	logger *zap.Logger
}

// NewBuilder creates a view builder over a graph repository and a cache
func NewBuilder(g Graph, store cache.Store) *Builder {
	return &Builder{
		graph:  g,
		cache:  store,
		logger: logger.Get(),
	}
}

// cachedSimple reads a simple view through the cache. On a miss it loads
// the node, maps it through build, and pins the result.
func cachedSimple[T any](ctx context.Context, b *Builder, entityType string, label graph.Label, uid string, build func(*graph.NodeRecord) T) (*T, error) {
	key := cache.SimpleViewKey(entityType, uid)

	var view T
	found, err := b.cache.GetJSON(ctx, key, &view)
	if err != nil {
		// A broken cache read falls back to the graph
		b.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return &view, nil
	}

	record, err := b.graph.NodeView(ctx, label, uid)
	if err != nil {
		return nil, err
	}
	view = build(record)
	if err := b.cache.SetJSON(ctx, key, view, 0); err != nil {
		b.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return &view, nil
}

// expand maps neighbor uids to their simple views, preserving order.
// Neighbors that vanished between the id listing and the view read are
// skipped rather than failing the whole expansion.
func expand[T any](ctx context.Context, uids []string, load func(context.Context, string) (*T, error)) ([]T, error) {
	result := make([]T, 0, len(uids))
	for _, uid := range uids {
		view, err := load(ctx, uid)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, *view)
	}
	return result, nil
}

// expandSingle resolves a single-valued relation: no neighbor is a nil
// view, not an error
func expandSingle[T any](ctx context.Context, uids []string, load func(context.Context, string) (*T, error)) (*T, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	view, err := load(ctx, uids[0])
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return view, nil
}

// sortByStrength orders views most-connected first
func sortByStrength[T any](items []T, strength func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		return strength(items[i]) > strength(items[j])
	})
}

// sortByNewest orders views by a timestamp field, newest first. Timestamps
// are RFC3339 strings, so lexicographic order is chronological.
func sortByNewest[T any](items []T, createdAt func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]) > createdAt(items[j])
	})
}

// ============================================================================
// Property extraction
// ============================================================================

func propString(props map[string]interface{}, key string) string {
	if val, ok := props[key].(string); ok {
		return val
	}
	return ""
}

func propBool(props map[string]interface{}, key string) bool {
	if val, ok := props[key].(bool); ok {
		return val
	}
	return false
}
