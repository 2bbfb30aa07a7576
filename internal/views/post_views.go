package views

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
)

func mapPostSimple(record *graph.NodeRecord) model.PostSimple {
	return model.PostSimple{
		UID:             record.UID,
		Text:            propString(record.Props, "text"),
		Image:           propString(record.Props, "image"),
		Link:            propString(record.Props, "link"),
		LinkTitle:       propString(record.Props, "link_title"),
		LinkDescription: propString(record.Props, "link_description"),
		LinkImage:       propString(record.Props, "link_image"),
		Tags:            propString(record.Props, "tags"),
		CommentCount:    record.Counts[graph.PostComments],
		LikesCount:      record.Counts[graph.PostLikedBy],
		Strength:        record.Strength,
		CreatedAt:       propString(record.Props, "created_at"),
		UpdatedAt:       propString(record.Props, "updated_at"),
	}
}

// PostSimple returns a post's cached simple view
func (b *Builder) PostSimple(ctx context.Context, uid string) (*model.PostSimple, error) {
	return cachedSimple(ctx, b, "post", graph.LabelPost, uid, mapPostSimple)
}

// PostFull builds a post's full view
func (b *Builder) PostFull(ctx context.Context, uid string) (*model.PostFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelPost, uid)
	if err != nil {
		return nil, err
	}
	simple := mapPostSimple(record)
	b.refreshSimple(ctx, "post", uid, simple)

	full := &model.PostFull{PostSimple: simple}

	authorUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostCreatedBy)
	if err != nil {
		return nil, err
	}
	if full.CreatedBy, err = expandSingle(ctx, authorUIDs, b.UserSimple); err != nil {
		return nil, err
	}

	commentUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostComments)
	if err != nil {
		return nil, err
	}
	if full.Comments, err = expand(ctx, commentUIDs, b.CommentSimple); err != nil {
		return nil, err
	}
	sortByNewest(full.Comments, func(c model.CommentSimple) string { return c.CreatedAt })

	taggedUserUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostTaggedUsers)
	if err != nil {
		return nil, err
	}
	if full.TaggedUsers, err = expand(ctx, taggedUserUIDs, b.UserSimple); err != nil {
		return nil, err
	}

	taggedSoftwareUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostTaggedSoftwares)
	if err != nil {
		return nil, err
	}
	if full.TaggedSoftwares, err = expand(ctx, taggedSoftwareUIDs, b.SoftwareSimple); err != nil {
		return nil, err
	}

	taggedStackUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostTaggedStacks)
	if err != nil {
		return nil, err
	}
	if full.TaggedStacks, err = expand(ctx, taggedStackUIDs, b.StackSimple); err != nil {
		return nil, err
	}

	taggedCompanyUIDs, err := b.graph.Neighbors(ctx, graph.LabelPost, uid, graph.PostTaggedCompanies)
	if err != nil {
		return nil, err
	}
	if full.TaggedCompanies, err = expand(ctx, taggedCompanyUIDs, b.CompanySimple); err != nil {
		return nil, err
	}

	return full, nil
}
