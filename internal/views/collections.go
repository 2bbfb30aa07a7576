package views

import (
	"context"

	"go.uber.org/zap"

	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/internal/model"
)

// ============================================================================
// Collection views
//
// Collections list every entity of a type as full views, strongest
// first. They are cached for an hour and rebuilt in the background after
// writes; the Rebuild variants bypass the collection cache and are what
// the invalidation coordinator schedules.
// ============================================================================

// Users returns all users, strongest first
func (b *Builder) Users(ctx context.Context) ([]model.UserFull, error) {
	return cachedCollection(ctx, b, cache.KeyUsers, b.RebuildUsers)
}

// RebuildUsers recomputes the users collection from the graph
func (b *Builder) RebuildUsers(ctx context.Context) ([]model.UserFull, error) {
	views, err := collect(ctx, b, graph.LabelUser, b.UserFull)
	if err != nil {
		return nil, err
	}
	sortByStrength(views, func(u model.UserFull) int64 { return u.Strength })
	return views, nil
}

// Companies returns all companies, strongest first
func (b *Builder) Companies(ctx context.Context) ([]model.CompanyFull, error) {
	return cachedCollection(ctx, b, cache.KeyCompanies, b.RebuildCompanies)
}

// RebuildCompanies recomputes the companies collection from the graph
func (b *Builder) RebuildCompanies(ctx context.Context) ([]model.CompanyFull, error) {
	views, err := collect(ctx, b, graph.LabelCompany, b.CompanyFull)
	if err != nil {
		return nil, err
	}
	sortByStrength(views, func(c model.CompanyFull) int64 { return c.Strength })
	return views, nil
}

// Softwares returns all software entries, strongest first
func (b *Builder) Softwares(ctx context.Context) ([]model.SoftwareFull, error) {
	return cachedCollection(ctx, b, cache.KeySoftwares, b.RebuildSoftwares)
}

// RebuildSoftwares recomputes the softwares collection from the graph
func (b *Builder) RebuildSoftwares(ctx context.Context) ([]model.SoftwareFull, error) {
	views, err := collect(ctx, b, graph.LabelSoftware, b.SoftwareFull)
	if err != nil {
		return nil, err
	}
	sortByStrength(views, func(s model.SoftwareFull) int64 { return s.Strength })
	return views, nil
}

// Stacks returns all stacks, strongest first
func (b *Builder) Stacks(ctx context.Context) ([]model.StackFull, error) {
	return cachedCollection(ctx, b, cache.KeyStacks, b.RebuildStacks)
}

// RebuildStacks recomputes the stacks collection from the graph
func (b *Builder) RebuildStacks(ctx context.Context) ([]model.StackFull, error) {
	views, err := collect(ctx, b, graph.LabelStack, b.StackFull)
	if err != nil {
		return nil, err
	}
	sortByStrength(views, func(s model.StackFull) int64 { return s.Strength })
	return views, nil
}

// Posts returns a page of the post feed, newest first. The feed is paged
// and always current, so it skips the collection cache.
func (b *Builder) Posts(ctx context.Context, skip, limit int) ([]model.PostSimple, error) {
	uids, err := b.graph.ListPostUIDs(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return expand(ctx, uids, b.PostSimple)
}

func cachedCollection[T any](ctx context.Context, b *Builder, key string, rebuild func(context.Context) ([]T, error)) ([]T, error) {
	var views []T
	found, err := b.cache.GetJSON(ctx, key, &views)
	if err != nil {
		b.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return views, nil
	}

	views, err = rebuild(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.cache.SetJSON(ctx, key, views, cache.CollectionTTL); err != nil {
		b.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return views, nil
}

func collect[T any](ctx context.Context, b *Builder, label graph.Label, load func(context.Context, string) (*T, error)) ([]T, error) {
	uids, err := b.graph.ListUIDs(ctx, label)
	if err != nil {
		return nil, err
	}
	return expand(ctx, uids, load)
}
