package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/pkg/errors"
)

type fakeGraph struct {
	records       map[string]*graph.NodeRecord
	labels        map[graph.Label][]string
	neighbors     map[string]map[graph.Rel][]string
	unopened      map[string][]string
	nodeViewCalls map[string]int
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		records:       map[string]*graph.NodeRecord{},
		labels:        map[graph.Label][]string{},
		neighbors:     map[string]map[graph.Rel][]string{},
		unopened:      map[string][]string{},
		nodeViewCalls: map[string]int{},
	}
}

func (f *fakeGraph) addNode(label graph.Label, uid string, props map[string]interface{}, strength int64) {
	f.records[uid] = &graph.NodeRecord{
		UID:      uid,
		Props:    props,
		Counts:   map[graph.Rel]int64{},
		Strength: strength,
	}
	f.labels[label] = append(f.labels[label], uid)
}

func (f *fakeGraph) link(srcUID string, rel graph.Rel, targetUIDs ...string) {
	if f.neighbors[srcUID] == nil {
		f.neighbors[srcUID] = map[graph.Rel][]string{}
	}
	f.neighbors[srcUID][rel] = append(f.neighbors[srcUID][rel], targetUIDs...)
}

func (f *fakeGraph) NodeView(ctx context.Context, label graph.Label, uid string) (*graph.NodeRecord, error) {
	f.nodeViewCalls[uid]++
	record, ok := f.records[uid]
	if !ok {
		return nil, errors.NewNotFound(string(label), uid)
	}
	return record, nil
}

func (f *fakeGraph) Neighbors(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel) ([]string, error) {
	return f.neighbors[srcUID][rel], nil
}

func (f *fakeGraph) ListUIDs(ctx context.Context, label graph.Label) ([]string, error) {
	return f.labels[label], nil
}

func (f *fakeGraph) ListPostUIDs(ctx context.Context, skip, limit int) ([]string, error) {
	posts := f.labels[graph.LabelPost]
	if skip >= len(posts) {
		return nil, nil
	}
	posts = posts[skip:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakeGraph) UnopenedTaggedPosts(ctx context.Context, userUID string) ([]string, error) {
	return f.unopened[userUID], nil
}

func (f *fakeGraph) CompanyStacks(ctx context.Context, companyUID string) ([]string, error) {
	return nil, nil
}

func (f *fakeGraph) StackCompanies(ctx context.Context, stackUID string) ([]string, error) {
	return nil, nil
}

func TestUserSimple_CacheRoundTrip(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "u1", map[string]interface{}{
		"name": "Ada", "role": "engineer", "active": true,
	}, 7)
	b := NewBuilder(g, cache.NewMemoryStore())
	ctx := context.Background()

	first, err := b.UserSimple(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)
	assert.Equal(t, int64(7), first.Strength)
	assert.True(t, first.Active)
	assert.Equal(t, 1, g.nodeViewCalls["u1"])

	second, err := b.UserSimple(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.nodeViewCalls["u1"], "cached view must not re-read the graph")
}

func TestUserSimple_NotFound(t *testing.T) {
	b := NewBuilder(newFakeGraph(), cache.NewMemoryStore())

	_, err := b.UserSimple(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUserFull_ExpandsOneHop(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "u1", map[string]interface{}{
		"name": "Ada", "email": "ada@example.com",
	}, 3)
	g.addNode(graph.LabelCompany, "c1", map[string]interface{}{"name": "Initech"}, 5)
	g.addNode(graph.LabelStack, "s1", map[string]interface{}{"name": "Go"}, 2)
	g.addNode(graph.LabelStack, "s2", map[string]interface{}{"name": "Neo4j"}, 9)
	g.link("u1", graph.UserWorksFor, "c1")
	g.link("u1", graph.UserKnows, "s1", "s2")
	g.unopened["u1"] = []string{"p1", "p2"}

	b := NewBuilder(g, cache.NewMemoryStore())
	full, err := b.UserFull(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", full.Email)
	assert.Equal(t, 2, full.NotificationCount)
	require.NotNil(t, full.Company)
	assert.Equal(t, "Initech", full.Company.Name)
	require.Len(t, full.Stacks, 2)
	assert.Equal(t, "Neo4j", full.Stacks[0].Name, "stacks sorted strongest first")
	assert.Empty(t, full.Posts)
}

func TestUserFull_NoEmployerIsNull(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "u1", map[string]interface{}{"name": "Ada"}, 0)

	b := NewBuilder(g, cache.NewMemoryStore())
	full, err := b.UserFull(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, full.Company)
	assert.NotNil(t, full.Stacks)
	assert.Empty(t, full.Stacks)
}

func TestStackFull_PartOfCycleStopsAtOneHop(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelStack, "a", map[string]interface{}{"name": "A"}, 1)
	g.addNode(graph.LabelStack, "b", map[string]interface{}{"name": "B"}, 1)
	g.link("a", graph.StackPartOf, "b")
	g.link("b", graph.StackPartOf, "a")

	b := NewBuilder(g, cache.NewMemoryStore())
	full, err := b.StackFull(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, full.PartOf)
	assert.Equal(t, "B", full.PartOf.Name)
}

func TestPostFull_UsesCounts(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelPost, "p1", map[string]interface{}{"text": "hello"}, 4)
	g.records["p1"].Counts[graph.PostComments] = 3
	g.records["p1"].Counts[graph.PostLikedBy] = 8

	b := NewBuilder(g, cache.NewMemoryStore())
	full, err := b.PostFull(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), full.CommentCount)
	assert.Equal(t, int64(8), full.LikesCount)
	assert.Nil(t, full.CreatedBy)
}

func TestUsers_CollectionSortedAndCached(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "weak", map[string]interface{}{"name": "Weak"}, 1)
	g.addNode(graph.LabelUser, "strong", map[string]interface{}{"name": "Strong"}, 10)
	store := cache.NewMemoryStore()
	b := NewBuilder(g, store)
	ctx := context.Background()

	users, err := b.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Strong", users[0].Name)

	found, err := store.Exists(ctx, cache.KeyUsers)
	require.NoError(t, err)
	assert.True(t, found)

	// A second read comes from the collection cache
	calls := g.nodeViewCalls["strong"]
	again, err := b.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, again)
	assert.Equal(t, calls, g.nodeViewCalls["strong"])
}

func TestUsers_CollectionCarriesFullViews(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "u1", map[string]interface{}{"name": "Ada"}, 2)
	g.addNode(graph.LabelCompany, "c1", map[string]interface{}{"name": "Initech"}, 1)
	g.link("u1", graph.UserWorksFor, "c1")

	b := NewBuilder(g, cache.NewMemoryStore())
	users, err := b.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Company, "the cached listing expands relations")
	assert.Equal(t, "Initech", users[0].Company.Name)
}

func TestPosts_Paging(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelPost, "p1", map[string]interface{}{"text": "one"}, 0)
	g.addNode(graph.LabelPost, "p2", map[string]interface{}{"text": "two"}, 0)
	g.addNode(graph.LabelPost, "p3", map[string]interface{}{"text": "three"}, 0)

	b := NewBuilder(g, cache.NewMemoryStore())
	page, err := b.Posts(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Text)
}

func TestFullView_SkipsVanishedNeighbors(t *testing.T) {
	g := newFakeGraph()
	g.addNode(graph.LabelUser, "u1", map[string]interface{}{"name": "Ada"}, 0)
	g.addNode(graph.LabelStack, "s1", map[string]interface{}{"name": "Go"}, 0)
	g.link("u1", graph.UserKnows, "s1", "ghost")

	b := NewBuilder(g, cache.NewMemoryStore())
	full, err := b.UserFull(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, full.Stacks, 1)
	assert.Equal(t, "Go", full.Stacks[0].Name)
}
