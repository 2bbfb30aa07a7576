package views

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
)

func mapCommentSimple(record *graph.NodeRecord) model.CommentSimple {
	return model.CommentSimple{
		UID:          record.UID,
		Comment:      propString(record.Props, "comment"),
		CommentCount: record.Counts[graph.CommentReplies],
		LikesCount:   record.Counts[graph.CommentLikedBy],
		CreatedAt:    propString(record.Props, "created_at"),
		UpdatedAt:    propString(record.Props, "updated_at"),
	}
}

// CommentSimple returns a comment's cached simple view
func (b *Builder) CommentSimple(ctx context.Context, uid string) (*model.CommentSimple, error) {
	return cachedSimple(ctx, b, "comment", graph.LabelComment, uid, mapCommentSimple)
}

// CommentFull builds a comment's full view. A comment targets either a
// post or another comment; the expansion that has no edge stays null.
func (b *Builder) CommentFull(ctx context.Context, uid string) (*model.CommentFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelComment, uid)
	if err != nil {
		return nil, err
	}
	simple := mapCommentSimple(record)
	b.refreshSimple(ctx, "comment", uid, simple)

	full := &model.CommentFull{CommentSimple: simple}

	authorUIDs, err := b.graph.Neighbors(ctx, graph.LabelComment, uid, graph.CommentCreatedBy)
	if err != nil {
		return nil, err
	}
	if full.CreatedBy, err = expandSingle(ctx, authorUIDs, b.UserSimple); err != nil {
		return nil, err
	}

	postUIDs, err := b.graph.Neighbors(ctx, graph.LabelComment, uid, graph.CommentOnPost)
	if err != nil {
		return nil, err
	}
	if full.OnPost, err = expandSingle(ctx, postUIDs, b.PostSimple); err != nil {
		return nil, err
	}

	parentUIDs, err := b.graph.Neighbors(ctx, graph.LabelComment, uid, graph.CommentOnComment)
	if err != nil {
		return nil, err
	}
	if full.OnComment, err = expandSingle(ctx, parentUIDs, b.CommentSimple); err != nil {
		return nil, err
	}

	replyUIDs, err := b.graph.Neighbors(ctx, graph.LabelComment, uid, graph.CommentReplies)
	if err != nil {
		return nil, err
	}
	if full.Replies, err = expand(ctx, replyUIDs, b.CommentSimple); err != nil {
		return nil, err
	}
	sortByNewest(full.Replies, func(c model.CommentSimple) string { return c.CreatedAt })

	return full, nil
}
