package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"teamnet/internal/graph"
	"teamnet/internal/linkmeta"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Posts implements the post entity operations
type Posts struct {
	*base
	links linkmeta.Fetcher
}

// Insert creates a post. Entities the text mentions by name are tagged
// automatically on top of the explicitly tagged users, and a shared link
// is enriched with its OpenGraph preview when the client did not supply
// one.
func (h *Posts) Insert(ctx context.Context, req model.CreatePostReq) (*model.PostFull, error) {
	exists, err := h.store.NodeExists(ctx, graph.LabelUser, req.AuthorUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewInvalidRelation(graph.PostCreatedBy.Type, req.AuthorUID)
	}

	if req.Link != "" && req.LinkTitle == "" && h.links != nil {
		if meta, err := h.links.Fetch(ctx, req.Link); err != nil {
			h.logger.Warn("Failed to fetch link preview", zap.String("link", req.Link), zap.Error(err))
		} else {
			req.LinkTitle = meta.Title
			req.LinkDescription = meta.Description
			req.LinkImage = meta.Image
		}
	}

	mentions, err := h.findMentions(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelPost, map[string]interface{}{
		"text":             req.Text,
		"image":            req.Image,
		"link":             req.Link,
		"link_title":       req.LinkTitle,
		"link_description": req.LinkDescription,
		"link_image":       req.LinkImage,
		"tags":             strings.Join(mentions.names, ","),
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.Connect(ctx, graph.LabelPost, uid, graph.PostCreatedBy, req.AuthorUID); err != nil {
		h.rollbackCreate(ctx, graph.LabelPost, uid)
		return nil, err
	}

	if err := h.applyTags(ctx, uid, req.TaggedUsers, mentions); err != nil {
		h.rollbackCreate(ctx, graph.LabelPost, uid)
		return nil, err
	}

	h.clearSimple(ctx, "user", req.AuthorUID)
	h.refreshUsers()
	return h.views.PostFull(ctx, uid)
}

// Update merges scalar fields and replaces the tagged-user set when one
// is given. Replacing the set resets the notification flag for the new
// targets.
func (h *Posts) Update(ctx context.Context, uid string, req model.UpdatePostReq) (*model.PostFull, error) {
	fields := map[string]interface{}{}
	setIfNotNil(fields, "text", req.Text)
	setIfNotNil(fields, "image", req.Image)
	setIfNotNil(fields, "link", req.Link)
	setIfNotNil(fields, "link_title", req.LinkTitle)
	setIfNotNil(fields, "link_description", req.LinkDescription)
	setIfNotNil(fields, "link_image", req.LinkImage)

	if req.Link != nil && *req.Link != "" && req.LinkTitle == nil && h.links != nil {
		if meta, err := h.links.Fetch(ctx, *req.Link); err != nil {
			h.logger.Warn("Failed to fetch link preview", zap.String("link", *req.Link), zap.Error(err))
		} else {
			fields["link_title"] = meta.Title
			fields["link_description"] = meta.Description
			fields["link_image"] = meta.Image
		}
	}

	if err := h.store.UpdateNode(ctx, graph.LabelPost, uid, fields); err != nil {
		return nil, err
	}

	if req.TaggedUsers != nil {
		if err := h.store.ReplaceTaggedUsers(ctx, uid, *req.TaggedUsers); err != nil {
			return nil, err
		}
	}

	h.clearSimple(ctx, "post", uid)
	return h.views.PostFull(ctx, uid)
}

// Delete removes a post together with its comment tree and stored image
func (h *Posts) Delete(ctx context.Context, uid string) error {
	record, err := h.store.NodeView(ctx, graph.LabelPost, uid)
	if err != nil {
		return err
	}

	authorUIDs, err := h.store.Neighbors(ctx, graph.LabelPost, uid, graph.PostCreatedBy)
	if err != nil {
		return err
	}

	commentUIDs, err := h.store.Neighbors(ctx, graph.LabelPost, uid, graph.PostComments)
	if err != nil {
		return err
	}
	for _, c := range commentUIDs {
		if err := h.deleteCommentTree(ctx, c); err != nil {
			return err
		}
	}

	if err := h.store.DeleteNode(ctx, graph.LabelPost, uid); err != nil {
		return err
	}

	if image, ok := record.Props["image"].(string); ok && image != "" {
		if err := h.assets.Remove(ctx, image); err != nil {
			h.logger.Warn("Failed to remove post image", zap.String("uid", uid), zap.Error(err))
		}
	}

	for _, author := range authorUIDs {
		h.clearSimple(ctx, "user", author)
	}
	h.clearSimple(ctx, "post", uid)

	h.refreshUsers()
	return nil
}

// GetByUID returns the post's full view. When a viewer is given and was
// tagged on the post, opening it clears their notification.
func (h *Posts) GetByUID(ctx context.Context, uid, viewerUID string) (*model.PostFull, error) {
	full, err := h.views.PostFull(ctx, uid)
	if err != nil {
		return nil, err
	}
	if viewerUID != "" {
		if err := h.store.MarkPostOpened(ctx, viewerUID, uid); err != nil {
			h.logger.Warn("Failed to mark post opened",
				zap.String("post", uid), zap.String("viewer", viewerUID), zap.Error(err))
		}
	}
	return full, nil
}

// ListAll returns a page of the post feed, newest first
func (h *Posts) ListAll(ctx context.Context, skip, limit int) ([]model.PostSimple, error) {
	if limit <= 0 {
		limit = 25
	}
	return h.views.Posts(ctx, skip, limit)
}

// Like records a user liking a post
func (h *Posts) Like(ctx context.Context, postUID, userUID string) error {
	exists, err := h.store.NodeExists(ctx, graph.LabelUser, userUID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewInvalidRelation(graph.PostLikedBy.Type, userUID)
	}
	if err := h.store.Connect(ctx, graph.LabelPost, postUID, graph.PostLikedBy, userUID); err != nil {
		return err
	}
	h.clearSimple(ctx, "post", postUID)
	return nil
}

// Unlike removes a user's like from a post
func (h *Posts) Unlike(ctx context.Context, postUID, userUID string) error {
	if err := h.store.Disconnect(ctx, graph.LabelPost, postUID, graph.PostLikedBy, userUID); err != nil {
		return err
	}
	h.clearSimple(ctx, "post", postUID)
	return nil
}

// mentionSet is the entities a post's text refers to by name
type mentionSet struct {
	names     []string
	users     []string
	softwares []string
	stacks    []string
	companies []string
}

// findMentions scans the post text for entity names, matching
// case-insensitively on whole names
func (h *Posts) findMentions(ctx context.Context, text string) (*mentionSet, error) {
	lowered := strings.ToLower(text)
	mentions := &mentionSet{}

	for _, scan := range []struct {
		label graph.Label
		uids  *[]string
	}{
		{graph.LabelUser, &mentions.users},
		{graph.LabelSoftware, &mentions.softwares},
		{graph.LabelStack, &mentions.stacks},
		{graph.LabelCompany, &mentions.companies},
	} {
		names, err := h.store.ListNames(ctx, scan.label)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if n.Name == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(n.Name)) {
				*scan.uids = append(*scan.uids, n.UID)
				mentions.names = append(mentions.names, n.Name)
			}
		}
	}
	return mentions, nil
}

// applyTags connects explicit and mentioned entities to the post.
// Users get the notification edge; other entity types get plain tag
// relationships.
func (h *Posts) applyTags(ctx context.Context, postUID string, explicit *[]string, mentions *mentionSet) error {
	tagged := map[string]bool{}
	if explicit != nil {
		for _, u := range *explicit {
			tagged[u] = true
		}
	}
	for _, u := range mentions.users {
		tagged[u] = true
	}
	for userUID := range tagged {
		exists, err := h.store.NodeExists(ctx, graph.LabelUser, userUID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewInvalidRelation(graph.PostTaggedUsers.Type, userUID)
		}
		if err := h.store.TagUserOnPost(ctx, postUID, userUID); err != nil {
			return err
		}
	}

	for _, s := range mentions.softwares {
		if err := h.store.Connect(ctx, graph.LabelPost, postUID, graph.PostTaggedSoftwares, s); err != nil {
			return err
		}
	}
	for _, s := range mentions.stacks {
		if err := h.store.Connect(ctx, graph.LabelPost, postUID, graph.PostTaggedStacks, s); err != nil {
			return err
		}
	}
	for _, c := range mentions.companies {
		if err := h.store.Connect(ctx, graph.LabelPost, postUID, graph.PostTaggedCompanies, c); err != nil {
			return err
		}
	}
	return nil
}
