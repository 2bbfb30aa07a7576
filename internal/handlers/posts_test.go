package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

func seedUser(t *testing.T, f *fixture, name, email string) string {
	t.Helper()
	full, err := f.h.Users.Insert(context.Background(), model.CreateUserReq{Email: email, Name: name})
	require.NoError(t, err)
	return full.UID
}

func TestPosts_Insert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")

	full, err := f.h.Posts.Insert(ctx, model.CreatePostReq{
		Text:      "shipped a thing today",
		AuthorUID: authorUID,
	})
	require.NoError(t, err)
	assert.Equal(t, "shipped a thing today", full.Text)
	require.NotNil(t, full.CreatedBy)
	assert.Equal(t, "Ada", full.CreatedBy.Name)
}

func TestPosts_Insert_UnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.h.Posts.Insert(context.Background(), model.CreatePostReq{
		Text:      "hello",
		AuthorUID: "ghost",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRelation(err))
}

func TestPosts_Insert_AutoTagsMentions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")
	seedStack(t, f, "Neo4j")
	grace := seedUser(t, f, "Grace", "grace@example.com")

	full, err := f.h.Posts.Insert(ctx, model.CreatePostReq{
		Text:      "pairing with Grace on the neo4j migration",
		AuthorUID: authorUID,
	})
	require.NoError(t, err)

	require.Len(t, full.TaggedStacks, 1)
	assert.Equal(t, "Neo4j", full.TaggedStacks[0].Name)
	require.Len(t, full.TaggedUsers, 1)
	assert.Equal(t, "Grace", full.TaggedUsers[0].Name)

	// The mention leaves an unopened notification for Grace
	unopened, err := f.store.UnopenedTaggedPosts(ctx, grace)
	require.NoError(t, err)
	assert.Equal(t, []string{full.UID}, unopened)
}

func TestPosts_GetByUID_MarksOpened(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")
	grace := seedUser(t, f, "Grace", "grace@example.com")

	post, err := f.h.Posts.Insert(ctx, model.CreatePostReq{
		Text:        "hello",
		AuthorUID:   authorUID,
		TaggedUsers: slicePtr(grace),
	})
	require.NoError(t, err)

	unopened, err := f.store.UnopenedTaggedPosts(ctx, grace)
	require.NoError(t, err)
	require.Len(t, unopened, 1)

	_, err = f.h.Posts.GetByUID(ctx, post.UID, grace)
	require.NoError(t, err)

	unopened, err = f.store.UnopenedTaggedPosts(ctx, grace)
	require.NoError(t, err)
	assert.Empty(t, unopened, "opening the post clears the notification")
}

func TestPosts_LikeUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")
	grace := seedUser(t, f, "Grace", "grace@example.com")

	post, err := f.h.Posts.Insert(ctx, model.CreatePostReq{Text: "hello", AuthorUID: authorUID})
	require.NoError(t, err)

	require.NoError(t, f.h.Posts.Like(ctx, post.UID, grace))
	// Liking twice stays one like
	require.NoError(t, f.h.Posts.Like(ctx, post.UID, grace))

	full, err := f.h.Posts.GetByUID(ctx, post.UID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), full.LikesCount)

	require.NoError(t, f.h.Posts.Unlike(ctx, post.UID, grace))
	full, err = f.h.Posts.GetByUID(ctx, post.UID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), full.LikesCount)
}

func TestPosts_Delete_CascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")

	post, err := f.h.Posts.Insert(ctx, model.CreatePostReq{Text: "hello", AuthorUID: authorUID})
	require.NoError(t, err)

	comment, err := f.h.Comments.Insert(ctx, model.CreateCommentReq{
		Comment: "nice", AuthorUID: authorUID, PostUID: post.UID,
	})
	require.NoError(t, err)
	reply, err := f.h.Comments.Insert(ctx, model.CreateCommentReq{
		Comment: "thanks", AuthorUID: authorUID, CommentUID: comment.UID,
	})
	require.NoError(t, err)

	require.NoError(t, f.h.Posts.Delete(ctx, post.UID))

	for _, uid := range []string{comment.UID, reply.UID} {
		exists, err := f.store.NodeExists(ctx, graph.LabelComment, uid)
		require.NoError(t, err)
		assert.False(t, exists, "comment tree must go with the post")
	}
}

func TestPosts_ListAll_Pages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorUID := seedUser(t, f, "Ada", "ada@example.com")

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.h.Posts.Insert(ctx, model.CreatePostReq{Text: text, AuthorUID: authorUID})
		require.NoError(t, err)
	}

	page, err := f.h.Posts.ListAll(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Text)
}
