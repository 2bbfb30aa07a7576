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

func seedStack(t *testing.T, f *fixture, name string) string {
	t.Helper()
	uid, err := f.store.CreateNode(context.Background(), graph.LabelStack, map[string]interface{}{
		"name": name, "type": "backend",
	})
	require.NoError(t, err)
	return uid
}

func seedCompany(t *testing.T, f *fixture, name string) string {
	t.Helper()
	uid, err := f.store.CreateNode(context.Background(), graph.LabelCompany, map[string]interface{}{
		"name": name,
	})
	require.NoError(t, err)
	return uid
}

func TestUsers_Insert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	companyUID := seedCompany(t, f, "Initech")
	stackUID := seedStack(t, f, "Go")

	full, err := f.h.Users.Insert(ctx, model.CreateUserReq{
		Email:      "ada@example.com",
		Name:       "Ada",
		Role:       "engineer",
		CompanyUID: strPtr(companyUID),
		Stacks:     slicePtr(stackUID),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", full.Name)
	assert.Equal(t, "ada@example.com", full.Email)
	assert.True(t, full.Active)
	require.NotNil(t, full.Company)
	assert.Equal(t, "Initech", full.Company.Name)
	require.Len(t, full.Stacks, 1)
	assert.Equal(t, "Go", full.Stacks[0].Name)

	// Strength counts all relationship sets
	assert.Equal(t, int64(2), full.Strength)

	// The generated password went out by mail, hashed in the graph
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", f.mailer.sent[0].to)
	assert.NotEmpty(t, f.mailer.sent[0].password)
	record, err := f.store.NodeView(ctx, graph.LabelUser, full.UID)
	require.NoError(t, err)
	assert.NotEqual(t, f.mailer.sent[0].password, record.Props["password"])
}

func TestUsers_Insert_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.Users.Insert(ctx, model.CreateUserReq{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	_, err = f.h.Users.Insert(ctx, model.CreateUserReq{Email: "ada@example.com", Name: "Ada Again"})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestUsers_Insert_BadRelationRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.Users.Insert(ctx, model.CreateUserReq{
		Email:  "ada@example.com",
		Name:   "Ada",
		Stacks: slicePtr("no-such-stack"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRelation(err))

	// The half-created node must not survive
	uids, err := f.store.ListUIDs(ctx, graph.LabelUser)
	require.NoError(t, err)
	assert.Empty(t, uids)
}

func TestUsers_Update_NilKeepsRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stackUID := seedStack(t, f, "Go")

	created, err := f.h.Users.Insert(ctx, model.CreateUserReq{
		Email:  "ada@example.com",
		Name:   "Ada",
		Stacks: slicePtr(stackUID),
	})
	require.NoError(t, err)

	// Nil set: relations untouched
	updated, err := f.h.Users.Update(ctx, created.UID, model.UpdateUserReq{Bio: strPtr("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hi", updated.Bio)
	require.Len(t, updated.Stacks, 1)

	// Empty set: disconnect everything
	updated, err = f.h.Users.Update(ctx, created.UID, model.UpdateUserReq{Stacks: slicePtr()})
	require.NoError(t, err)
	assert.Empty(t, updated.Stacks)
}

func TestUsers_Update_InvalidatesCachedView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.h.Users.Insert(ctx, model.CreateUserReq{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	// Prime the cache
	listed, err := f.h.Users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ada", listed[0].Name)

	_, err = f.h.Users.Update(ctx, created.UID, model.UpdateUserReq{Name: strPtr("Ada L.")})
	require.NoError(t, err)
	f.coord.Flush()

	full, err := f.h.Users.GetByUID(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", full.Name)

	listed, err = f.h.Users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ada L.", listed[0].Name, "collection cache must be rebuilt after update")
}

func TestUsers_Update_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.h.Users.Update(context.Background(), "missing", model.UpdateUserReq{Name: strPtr("x")})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUsers_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.h.Users.Insert(ctx, model.CreateUserReq{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, f.h.Users.Delete(ctx, created.UID))
	f.coord.Flush()

	_, err = f.h.Users.GetByUID(ctx, created.UID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	listed, err := f.h.Users.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUsers_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.Users.Insert(ctx, model.CreateUserReq{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	password := f.mailer.sent[0].password

	token, full, err := f.h.Users.Login(ctx, "ada@example.com", password)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Ada", full.Name)

	_, _, err = f.h.Users.Login(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))

	_, _, err = f.h.Users.Login(ctx, "nobody@example.com", password)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}
