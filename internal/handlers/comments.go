package handlers

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Comments implements the comment entity operations
type Comments struct {
	*base
}

// Insert creates a comment on exactly one target: a post or another
// comment. Commenting on a post re-notifies everyone tagged on it except
// the commenter, and pulls the post's author into the tagged set so they
// hear about it too.
func (h *Comments) Insert(ctx context.Context, req model.CreateCommentReq) (*model.CommentFull, error) {
	if (req.PostUID == "") == (req.CommentUID == "") {
		return nil, errors.NewValidation("target", "exactly one of post_uid and comment_uid must be set")
	}

	exists, err := h.store.NodeExists(ctx, graph.LabelUser, req.AuthorUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewInvalidRelation(graph.CommentCreatedBy.Type, req.AuthorUID)
	}

	if req.PostUID != "" {
		if exists, err = h.store.NodeExists(ctx, graph.LabelPost, req.PostUID); err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.NewInvalidRelation(graph.CommentOnPost.Type, req.PostUID)
		}
	} else {
		if exists, err = h.store.NodeExists(ctx, graph.LabelComment, req.CommentUID); err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.NewInvalidRelation(graph.CommentOnComment.Type, req.CommentUID)
		}
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelComment, map[string]interface{}{
		"comment": req.Comment,
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.Connect(ctx, graph.LabelComment, uid, graph.CommentCreatedBy, req.AuthorUID); err != nil {
		h.rollbackCreate(ctx, graph.LabelComment, uid)
		return nil, err
	}

	if req.PostUID != "" {
		if err := h.attachToPost(ctx, uid, req.PostUID, req.AuthorUID); err != nil {
			h.rollbackCreate(ctx, graph.LabelComment, uid)
			return nil, err
		}
	} else {
		if err := h.store.Connect(ctx, graph.LabelComment, uid, graph.CommentOnComment, req.CommentUID); err != nil {
			h.rollbackCreate(ctx, graph.LabelComment, uid)
			return nil, err
		}
		h.clearSimple(ctx, "comment", req.CommentUID)
	}

	h.clearSimple(ctx, "user", req.AuthorUID)
	h.refreshUsers()
	return h.views.CommentFull(ctx, uid)
}

// Update merges the comment text
func (h *Comments) Update(ctx context.Context, uid string, req model.UpdateCommentReq) (*model.CommentFull, error) {
	fields := map[string]interface{}{}
	setIfNotNil(fields, "comment", req.Comment)

	if err := h.store.UpdateNode(ctx, graph.LabelComment, uid, fields); err != nil {
		return nil, err
	}
	h.clearSimple(ctx, "comment", uid)
	return h.views.CommentFull(ctx, uid)
}

// Delete removes a comment and its whole reply subtree
func (h *Comments) Delete(ctx context.Context, uid string) error {
	postUIDs, err := h.store.Neighbors(ctx, graph.LabelComment, uid, graph.CommentOnPost)
	if err != nil {
		return err
	}
	parentUIDs, err := h.store.Neighbors(ctx, graph.LabelComment, uid, graph.CommentOnComment)
	if err != nil {
		return err
	}

	if err := h.deleteCommentTree(ctx, uid); err != nil {
		return err
	}

	for _, p := range postUIDs {
		h.clearSimple(ctx, "post", p)
	}
	for _, p := range parentUIDs {
		h.clearSimple(ctx, "comment", p)
	}
	return nil
}

// GetByUID returns the comment's full view
func (h *Comments) GetByUID(ctx context.Context, uid string) (*model.CommentFull, error) {
	return h.views.CommentFull(ctx, uid)
}

// Like records a user liking a comment
func (h *Comments) Like(ctx context.Context, commentUID, userUID string) error {
	exists, err := h.store.NodeExists(ctx, graph.LabelUser, userUID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewInvalidRelation(graph.CommentLikedBy.Type, userUID)
	}
	if err := h.store.Connect(ctx, graph.LabelComment, commentUID, graph.CommentLikedBy, userUID); err != nil {
		return err
	}
	h.clearSimple(ctx, "comment", commentUID)
	return nil
}

// Unlike removes a user's like from a comment
func (h *Comments) Unlike(ctx context.Context, commentUID, userUID string) error {
	if err := h.store.Disconnect(ctx, graph.LabelComment, commentUID, graph.CommentLikedBy, userUID); err != nil {
		return err
	}
	h.clearSimple(ctx, "comment", commentUID)
	return nil
}

// attachToPost wires a new comment to its post and fires the
// notification side effects
func (h *Comments) attachToPost(ctx context.Context, commentUID, postUID, authorUID string) error {
	if err := h.store.Connect(ctx, graph.LabelComment, commentUID, graph.CommentOnPost, postUID); err != nil {
		return err
	}
	if err := h.store.Connect(ctx, graph.LabelPost, postUID, graph.PostCommentedBy, authorUID); err != nil {
		return err
	}

	postAuthors, err := h.store.Neighbors(ctx, graph.LabelPost, postUID, graph.PostCreatedBy)
	if err != nil {
		return err
	}
	for _, owner := range postAuthors {
		if owner == authorUID {
			continue
		}
		if err := h.store.TagUserOnPost(ctx, postUID, owner); err != nil {
			return err
		}
	}
	if err := h.store.ReopenPostNotifications(ctx, postUID, authorUID); err != nil {
		return err
	}

	h.clearSimple(ctx, "post", postUID)
	return nil
}

// deleteCommentTree removes a comment and, recursively, its replies
func (b *base) deleteCommentTree(ctx context.Context, uid string) error {
	replyUIDs, err := b.store.Neighbors(ctx, graph.LabelComment, uid, graph.CommentReplies)
	if err != nil {
		return err
	}
	for _, reply := range replyUIDs {
		if err := b.deleteCommentTree(ctx, reply); err != nil {
			return err
		}
	}
	if err := b.store.DeleteNode(ctx, graph.LabelComment, uid); err != nil {
		return err
	}
	b.clearSimple(ctx, "comment", uid)
	return nil
}
