package graph

import (
	"context"
	"fmt"

	"teamnet/pkg/errors"
)

// ============================================================================
// Notification Operations
//
// The POST_TAGGED_USER edge carries a has_opened flag used as the
// notification-seen marker: tagging a user (or commenting on a post they are
// tagged on) sets it false, and the user opening the post sets it true.
// ============================================================================

// TagUserOnPost tags a user on a post. A fresh tag starts unopened; tagging
// an already tagged user leaves their flag alone.
func (r *Repository) TagUserOnPost(ctx context.Context, postUID, userUID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $userUID})
		MATCH (p:Post {uid: $postUID})
		MERGE (u)-[rl:POST_TAGGED_USER]->(p)
		ON CREATE SET rl.has_opened = false
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"userUID": userUID,
		"postUID": postUID,
	})
	if err != nil {
		return fmt.Errorf("failed to tag user on post: %w", err)
	}
	return nil
}

// ReplaceTaggedUsers replaces the full tagged-user set of a post, validating
// every uid before disconnecting anything. Fresh tags start unopened.
func (r *Repository) ReplaceTaggedUsers(ctx context.Context, postUID string, userUIDs []string) error {
	for _, uid := range userUIDs {
		exists, err := r.NodeExists(ctx, LabelUser, uid)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewInvalidRelation(PostTaggedUsers.Type, uid)
		}
	}

	if err := r.DisconnectAll(ctx, LabelPost, postUID, PostTaggedUsers); err != nil {
		return err
	}
	for _, uid := range userUIDs {
		if err := r.TagUserOnPost(ctx, postUID, uid); err != nil {
			return err
		}
	}
	return nil
}

// MarkPostOpened marks the user's notification edge on the post as seen
func (r *Repository) MarkPostOpened(ctx context.Context, userUID, postUID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $userUID})-[rl:POST_TAGGED_USER]->(p:Post {uid: $postUID})
		SET rl.has_opened = true
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"userUID": userUID,
		"postUID": postUID,
	})
	if err != nil {
		return fmt.Errorf("failed to mark post opened: %w", err)
	}
	return nil
}

// ReopenPostNotifications flips the has_opened flag back to false for every
// user tagged on the post except the acting user, so new activity on the
// post shows up as unseen again
func (r *Repository) ReopenPostNotifications(ctx context.Context, postUID, exceptUserUID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[rl:POST_TAGGED_USER]->(p:Post {uid: $postUID})
		WHERE u.uid <> $exceptUID
		SET rl.has_opened = false
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"postUID":   postUID,
		"exceptUID": exceptUserUID,
	})
	if err != nil {
		return fmt.Errorf("failed to reopen post notifications: %w", err)
	}
	return nil
}

// UnopenedTaggedPosts returns the posts the user is tagged on with an
// unseen notification, newest first
func (r *Repository) UnopenedTaggedPosts(ctx context.Context, userUID string) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $userUID})-[rl:POST_TAGGED_USER]->(p:Post)
		WHERE rl.has_opened = false
		RETURN p.uid AS uid
		ORDER BY p.updated_at DESC
	`
	result, err := session.Run(ctx, query, map[string]interface{}{"userUID": userUID})
	if err != nil {
		return nil, fmt.Errorf("failed to list unopened tagged posts: %w", err)
	}

	uids := []string{}
	for result.Next(ctx) {
		uids = append(uids, getStringFromRecord(result.Record(), "uid"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list unopened tagged posts: %w", err)
	}
	return uids, nil
}
