package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teamnet/internal/assets"
	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/internal/views"
	"teamnet/pkg/errors"
)

// fakeStore is an in-memory Store with the same semantics as the graph
// repository: merge-style edges, validate-before-replace, strength as the
// sum of relationship cardinalities.
type fakeStore struct {
	mu     sync.Mutex
	seq    int
	nodes  map[string]map[string]interface{}
	labels map[string]graph.Label
	order  []string
	edges  []fakeEdge
	opened map[string]bool // postUID|userUID -> has_opened

	searchResults map[string][]graph.Scored
}

// fakeEdge stores the physical arrow: from -[relType]-> to
type fakeEdge struct {
	from, to, relType string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:         map[string]map[string]interface{}{},
		labels:        map[string]graph.Label{},
		opened:        map[string]bool{},
		searchResults: map[string][]graph.Scored{},
	}
}

func (f *fakeStore) CreateNode(ctx context.Context, label graph.Label, props map[string]interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	uid := fmt.Sprintf("%s-%d", label, f.seq)
	now := time.Now().UTC().Format(time.RFC3339)
	copied := map[string]interface{}{"created_at": now, "updated_at": now}
	for k, v := range props {
		copied[k] = v
	}
	f.nodes[uid] = copied
	f.labels[uid] = label
	f.order = append(f.order, uid)
	return uid, nil
}

func (f *fakeStore) NodeExists(ctx context.Context, label graph.Label, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.nodes[uid]
	return ok && f.labels[uid] == label, nil
}

func (f *fakeStore) FindByProperty(ctx context.Context, label graph.Label, property string, value interface{}) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, uid := range f.order {
		if f.labels[uid] == label && f.nodes[uid][property] == value {
			return uid, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) NodeView(ctx context.Context, label graph.Label, uid string) (*graph.NodeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.nodes[uid]
	if !ok || f.labels[uid] != label {
		return nil, errors.NewNotFound(string(label), uid)
	}
	record := &graph.NodeRecord{UID: uid, Props: props, Counts: map[graph.Rel]int64{}}
	for _, rel := range graph.StrengthRels(label) {
		count := int64(len(f.neighborsLocked(uid, rel)))
		record.Counts[rel] = count
		record.Strength += count
	}
	return record, nil
}

func (f *fakeStore) UpdateNode(ctx context.Context, label graph.Label, uid string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.nodes[uid]
	if !ok || f.labels[uid] != label {
		return errors.NewNotFound(string(label), uid)
	}
	for k, v := range fields {
		props[k] = v
	}
	props["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (f *fakeStore) DeleteNode(ctx context.Context, label graph.Label, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.nodes[uid]; !ok || f.labels[uid] != label {
		return errors.NewNotFound(string(label), uid)
	}
	delete(f.nodes, uid)
	delete(f.labels, uid)
	for i, o := range f.order {
		if o == uid {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	kept := f.edges[:0]
	for _, e := range f.edges {
		if e.from != uid && e.to != uid {
			kept = append(kept, e)
		}
	}
	f.edges = kept
	return nil
}

func (f *fakeStore) ListUIDs(ctx context.Context, label graph.Label) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uids := []string{}
	for _, uid := range f.order {
		if f.labels[uid] == label {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

func (f *fakeStore) ListNames(ctx context.Context, label graph.Label) ([]graph.NameUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := []graph.NameUID{}
	for _, uid := range f.order {
		if f.labels[uid] != label {
			continue
		}
		if name, ok := f.nodes[uid]["name"].(string); ok {
			names = append(names, graph.NameUID{UID: uid, Name: name})
		}
	}
	return names, nil
}

func (f *fakeStore) ListPostUIDs(ctx context.Context, skip, limit int) ([]string, error) {
	posts, _ := f.ListUIDs(ctx, graph.LabelPost)
	if skip >= len(posts) {
		return nil, nil
	}
	posts = posts[skip:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakeStore) Connect(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// The real query MATCHes both endpoints before the MERGE, so a
	// missing node means zero rows and no edge, not an error
	if _, ok := f.nodes[srcUID]; !ok {
		return nil
	}
	if _, ok := f.nodes[targetUID]; !ok {
		return nil
	}
	f.connectLocked(srcUID, rel, targetUID)
	return nil
}

func (f *fakeStore) connectLocked(srcUID string, rel graph.Rel, targetUID string) {
	edge := fakeEdge{from: srcUID, to: targetUID, relType: rel.Type}
	if rel.Dir == graph.Incoming {
		edge = fakeEdge{from: targetUID, to: srcUID, relType: rel.Type}
	}
	for _, e := range f.edges {
		if e == edge {
			return
		}
	}
	f.edges = append(f.edges, edge)
}

func (f *fakeStore) Disconnect(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	edge := fakeEdge{from: srcUID, to: targetUID, relType: rel.Type}
	if rel.Dir == graph.Incoming {
		edge = fakeEdge{from: targetUID, to: srcUID, relType: rel.Type}
	}
	for i, e := range f.edges {
		if e == edge {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) DisconnectAll(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.edges[:0]
	for _, e := range f.edges {
		if e.relType == rel.Type &&
			((rel.Dir == graph.Outgoing && e.from == srcUID) ||
				(rel.Dir == graph.Incoming && e.to == srcUID)) {
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
	return nil
}

func (f *fakeStore) Neighbors(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.neighborsLocked(srcUID, rel), nil
}

func (f *fakeStore) neighborsLocked(srcUID string, rel graph.Rel) []string {
	uids := []string{}
	for _, e := range f.edges {
		if e.relType != rel.Type {
			continue
		}
		if rel.Dir == graph.Outgoing && e.from == srcUID {
			uids = append(uids, e.to)
		}
		if rel.Dir == graph.Incoming && e.to == srcUID {
			uids = append(uids, e.from)
		}
	}
	return uids
}

func (f *fakeStore) ReplaceRelationship(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUIDs []string) error {
	f.mu.Lock()
	for _, target := range targetUIDs {
		if _, ok := f.nodes[target]; !ok {
			f.mu.Unlock()
			return errors.NewInvalidRelation(rel.Type, target)
		}
	}
	f.mu.Unlock()

	if err := f.DisconnectAll(ctx, src, srcUID, rel); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, target := range targetUIDs {
		f.connectLocked(srcUID, rel, target)
	}
	return nil
}

func (f *fakeStore) ReplaceSingle(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID *string) error {
	if targetUID == nil {
		return f.ReplaceRelationship(ctx, src, srcUID, rel, []string{})
	}
	return f.ReplaceRelationship(ctx, src, srcUID, rel, []string{*targetUID})
}

func (f *fakeStore) TagUserOnPost(ctx context.Context, postUID, userUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := postUID + "|" + userUID
	if _, exists := f.opened[key]; !exists {
		f.opened[key] = false
	}
	f.connectLocked(postUID, graph.PostTaggedUsers, userUID)
	return nil
}

func (f *fakeStore) ReplaceTaggedUsers(ctx context.Context, postUID string, userUIDs []string) error {
	f.mu.Lock()
	for _, target := range userUIDs {
		if _, ok := f.nodes[target]; !ok {
			f.mu.Unlock()
			return errors.NewInvalidRelation(graph.PostTaggedUsers.Type, target)
		}
	}
	for key := range f.opened {
		if len(key) > len(postUID) && key[:len(postUID)+1] == postUID+"|" {
			delete(f.opened, key)
		}
	}
	f.mu.Unlock()

	if err := f.DisconnectAll(ctx, graph.LabelPost, postUID, graph.PostTaggedUsers); err != nil {
		return err
	}
	for _, u := range userUIDs {
		if err := f.TagUserOnPost(ctx, postUID, u); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) MarkPostOpened(ctx context.Context, userUID, postUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := postUID + "|" + userUID
	if _, exists := f.opened[key]; exists {
		f.opened[key] = true
	}
	return nil
}

func (f *fakeStore) ReopenPostNotifications(ctx context.Context, postUID, exceptUserUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.opened {
		if len(key) > len(postUID) && key[:len(postUID)+1] == postUID+"|" && key != postUID+"|"+exceptUserUID {
			f.opened[key] = false
		}
	}
	return nil
}

func (f *fakeStore) UnopenedTaggedPosts(ctx context.Context, userUID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []string{}
	suffix := "|" + userUID
	for key, hasOpened := range f.opened {
		if !hasOpened && len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			posts = append(posts, key[:len(key)-len(suffix)])
		}
	}
	return posts, nil
}

func (f *fakeStore) CompanyStacks(ctx context.Context, companyUID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stacks := []string{}
	for _, user := range f.neighborsLocked(companyUID, graph.CompanyEmployees) {
		stacks = append(stacks, f.neighborsLocked(user, graph.UserKnows)...)
	}
	return stacks, nil
}

func (f *fakeStore) StackCompanies(ctx context.Context, stackUID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	companies := []string{}
	for _, user := range f.neighborsLocked(stackUID, graph.StackKnownBy) {
		companies = append(companies, f.neighborsLocked(user, graph.UserWorksFor)...)
	}
	return companies, nil
}

// Search queries resolve against canned results keyed by index and term

func (f *fakeStore) stubSearch(index, term string, results ...graph.Scored) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchResults[index+"|"+term] = results
}

func (f *fakeStore) stubSearchVia(index, term string, via graph.Traversal, results ...graph.Scored) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchResults[index+"|"+term+"|"+via.Name] = results
}

func (f *fakeStore) QueryFulltext(ctx context.Context, index, term string) ([]graph.Scored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults[index+"|"+term], nil
}

func (f *fakeStore) QueryFulltextVia(ctx context.Context, index, term string, via graph.Traversal) ([]graph.Scored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults[index+"|"+term+"|"+via.Name], nil
}

func (f *fakeStore) QueryPostsFulltext(ctx context.Context, term string) ([]graph.Scored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults["posts|"+term], nil
}

func (f *fakeStore) QueryPostsByAuthor(ctx context.Context, term string) ([]graph.Scored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults["posts_by_author|"+term], nil
}

// fakeMailer records welcome mails instead of sending them
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to, name, password string
}

func (m *fakeMailer) SendWelcome(ctx context.Context, toEmail, name, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: toEmail, name: name, password: password})
	return nil
}

// fixture wires handlers over the in-memory store
type fixture struct {
	store  *fakeStore
	cache  *cache.MemoryStore
	coord  *cache.Coordinator
	mailer *fakeMailer
	h      *Handlers
}

func newFixture(t interface{ Cleanup(func()) }) *fixture {
	store := newFakeStore()
	memCache := cache.NewMemoryStore()
	coord := cache.NewCoordinator(memCache)
	t.Cleanup(coord.Stop)

	builder := views.NewBuilder(store, memCache)
	mailer := &fakeMailer{}
	h := New(store, builder, coord, Options{
		Mail:        mailer,
		Assets:      assets.NoopStore{},
		JWTSecret:   "test-secret",
		TokenExpiry: 90,
	})
	return &fixture{store: store, cache: memCache, coord: coord, mailer: mailer, h: h}
}

func strPtr(s string) *string { return &s }

func slicePtr(items ...string) *[]string {
	s := append([]string{}, items...)
	return &s
}
