package views

import (
	"context"

	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/internal/model"

	"go.uber.org/zap"
)

func mapUserSimple(record *graph.NodeRecord) model.UserSimple {
	return model.UserSimple{
		UID:           record.UID,
		Name:          propString(record.Props, "name"),
		PreferredName: propString(record.Props, "preferred_name"),
		Role:          propString(record.Props, "role"),
		JoinedAt:      propString(record.Props, "joined_at"),
		Twitter:       propString(record.Props, "twitter"),
		Linkedin:      propString(record.Props, "linkedin"),
		Github:        propString(record.Props, "github"),
		Picture:       propString(record.Props, "picture"),
		Bio:           propString(record.Props, "bio"),
		Active:        propBool(record.Props, "active"),
		IsSuperuser:   propBool(record.Props, "is_superuser"),
		Strength:      record.Strength,
		CreatedAt:     propString(record.Props, "created_at"),
		UpdatedAt:     propString(record.Props, "updated_at"),
	}
}

// UserSimple returns a user's cached simple view, building it on a miss
func (b *Builder) UserSimple(ctx context.Context, uid string) (*model.UserSimple, error) {
	return cachedSimple(ctx, b, "user", graph.LabelUser, uid, mapUserSimple)
}

// UserFull builds a user's full view: the simple view plus one-hop
// expansions and the unopened notification count. The entity itself is
// always read from the graph; only the neighbor expansions go through
// the cache.
func (b *Builder) UserFull(ctx context.Context, uid string) (*model.UserFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelUser, uid)
	if err != nil {
		return nil, err
	}
	simple := mapUserSimple(record)
	b.refreshSimple(ctx, "user", uid, simple)

	full := &model.UserFull{
		UserSimple: simple,
		Email:      propString(record.Props, "email"),
	}

	companyUIDs, err := b.graph.Neighbors(ctx, graph.LabelUser, uid, graph.UserWorksFor)
	if err != nil {
		return nil, err
	}
	if full.Company, err = expandSingle(ctx, companyUIDs, b.CompanySimple); err != nil {
		return nil, err
	}

	stackUIDs, err := b.graph.Neighbors(ctx, graph.LabelUser, uid, graph.UserKnows)
	if err != nil {
		return nil, err
	}
	if full.Stacks, err = expand(ctx, stackUIDs, b.StackSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Stacks, func(s model.StackSimple) int64 { return s.Strength })

	softwareUIDs, err := b.graph.Neighbors(ctx, graph.LabelUser, uid, graph.UserWorkedOn)
	if err != nil {
		return nil, err
	}
	if full.Softwares, err = expand(ctx, softwareUIDs, b.SoftwareSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Softwares, func(s model.SoftwareSimple) int64 { return s.Strength })

	postUIDs, err := b.graph.Neighbors(ctx, graph.LabelUser, uid, graph.UserPosts)
	if err != nil {
		return nil, err
	}
	if full.Posts, err = expand(ctx, postUIDs, b.PostSimple); err != nil {
		return nil, err
	}
	sortByNewest(full.Posts, func(p model.PostSimple) string { return p.CreatedAt })

	unopened, err := b.graph.UnopenedTaggedPosts(ctx, uid)
	if err != nil {
		return nil, err
	}
	full.NotificationCount = len(unopened)

	return full, nil
}

// refreshSimple rewrites a simple view the builder already has in hand
func (b *Builder) refreshSimple(ctx context.Context, entityType, uid string, view interface{}) {
	key := cache.SimpleViewKey(entityType, uid)
	if err := b.cache.SetJSON(ctx, key, view, 0); err != nil {
		b.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
