package handlers

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Search weights. A term that hits an entity's own index counts full; a
// term that reaches it through one relationship hop counts 0.8, through
// two hops 0.6. Scores accumulate across terms, so an entity matched by
// several criteria outranks one matched by a single criterion.
const (
	directWeight = 1.0
	oneHopWeight = 0.8
	twoHopWeight = 0.6
)

const searchConcurrency = 4

// scoreBoard accumulates weighted relevance per entity uid
type scoreBoard struct {
	mu     sync.Mutex
	scores map[string]float64
}

func newScoreBoard() *scoreBoard {
	return &scoreBoard{scores: map[string]float64{}}
}

func (s *scoreBoard) add(results []graph.Scored, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		s.scores[r.UID] += r.Score * weight
	}
}

// ranked returns the uids best first
func (s *scoreBoard) ranked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	uids := make([]string, 0, len(s.scores))
	for uid := range s.scores {
		uids = append(uids, uid)
	}
	sort.SliceStable(uids, func(i, j int) bool {
		if s.scores[uids[i]] != s.scores[uids[j]] {
			return s.scores[uids[i]] > s.scores[uids[j]]
		}
		return uids[i] < uids[j]
	})
	return uids
}

// probe is one full-text query contributing to a target entity's ranking
type probe struct {
	index  string
	terms  []string
	via    *graph.Traversal
	weight float64
}

// runProbes executes a probe set concurrently and returns the ranked uids
func (b *base) runProbes(ctx context.Context, probes []probe) ([]string, error) {
	board := newScoreBoard()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)

	for _, p := range probes {
		for _, term := range p.terms {
			p, term := p, term
			if term == "" {
				continue
			}
			g.Go(func() error {
				var results []graph.Scored
				var err error
				if p.via == nil {
					results, err = b.store.QueryFulltext(ctx, p.index, term)
				} else {
					results, err = b.store.QueryFulltextVia(ctx, p.index, term, *p.via)
				}
				if err != nil {
					return err
				}
				board.add(results, p.weight)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return board.ranked(), nil
}

// withQueries folds the free-text terms into a bucket's own terms
func withQueries(bucket, queries []string) []string {
	return append(append([]string{}, bucket...), queries...)
}

// Search ranks users against the criteria and materializes their full
// views best first. Empty criteria return the whole listing shuffled, as
// a discovery feed; criteria that match nothing are a NotFound.
func (h *Users) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.UserFull, error) {
	if criteria.Empty() {
		return shuffledListing(ctx, h.base, graph.LabelUser, h.views.UserFull)
	}
	uids, err := h.runProbes(ctx, []probe{
		{index: graph.FulltextIndex(graph.LabelUser), terms: withQueries(criteria.Users, criteria.Queries), weight: directWeight},
		{index: graph.FulltextIndex(graph.LabelCompany), terms: criteria.Companies, via: &graph.CompanyToUser, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelSoftware), terms: criteria.Softwares, via: &graph.SoftwareToUser, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelStack), terms: criteria.Stacks, via: &graph.StackToUser, weight: oneHopWeight},
	})
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, errors.NewNotFound("user", "no search matches")
	}
	return loadRanked(ctx, uids, h.views.UserFull)
}

// Search ranks companies against the criteria
func (h *Companies) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.CompanyFull, error) {
	if criteria.Empty() {
		return shuffledListing(ctx, h.base, graph.LabelCompany, h.views.CompanyFull)
	}
	uids, err := h.runProbes(ctx, []probe{
		{index: graph.FulltextIndex(graph.LabelCompany), terms: withQueries(criteria.Companies, criteria.Queries), weight: directWeight},
		{index: graph.FulltextIndex(graph.LabelUser), terms: criteria.Users, via: &graph.UserToCompany, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelSoftware), terms: criteria.Softwares, via: &graph.SoftwareToCompany, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelStack), terms: criteria.Stacks, via: &graph.StackToCompany, weight: twoHopWeight},
	})
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, errors.NewNotFound("company", "no search matches")
	}
	return loadRanked(ctx, uids, h.views.CompanyFull)
}

// Search ranks software entries against the criteria
func (h *Softwares) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.SoftwareFull, error) {
	if criteria.Empty() {
		return shuffledListing(ctx, h.base, graph.LabelSoftware, h.views.SoftwareFull)
	}
	uids, err := h.runProbes(ctx, []probe{
		{index: graph.FulltextIndex(graph.LabelSoftware), terms: withQueries(criteria.Softwares, criteria.Queries), weight: directWeight},
		{index: graph.FulltextIndex(graph.LabelUser), terms: criteria.Users, via: &graph.UserToSoftware, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelCompany), terms: criteria.Companies, via: &graph.CompanyToSoftware, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelStack), terms: criteria.Stacks, via: &graph.StackToSoftware, weight: oneHopWeight},
	})
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, errors.NewNotFound("software", "no search matches")
	}
	return loadRanked(ctx, uids, h.views.SoftwareFull)
}

// Search ranks stacks against the criteria
func (h *Stacks) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.StackFull, error) {
	if criteria.Empty() {
		return shuffledListing(ctx, h.base, graph.LabelStack, h.views.StackFull)
	}
	uids, err := h.runProbes(ctx, []probe{
		{index: graph.FulltextIndex(graph.LabelStack), terms: withQueries(criteria.Stacks, criteria.Queries), weight: directWeight},
		{index: graph.FulltextIndex(graph.LabelUser), terms: criteria.Users, via: &graph.UserToStack, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelSoftware), terms: criteria.Softwares, via: &graph.SoftwareToStack, weight: oneHopWeight},
		{index: graph.FulltextIndex(graph.LabelCompany), terms: criteria.Companies, via: &graph.CompanyToStack, weight: twoHopWeight},
	})
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, errors.NewNotFound("stack", "no search matches")
	}
	return loadRanked(ctx, uids, h.views.StackFull)
}

// Search ranks posts by text relevance with recency decay, plus matches
// through the author's name. Posts have no discovery listing, so empty
// criteria are an error rather than a shuffle.
func (h *Posts) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.PostFull, error) {
	if criteria.Empty() {
		return nil, errors.NewNotFound("post", "search without criteria")
	}

	board := newScoreBoard()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)

	for _, term := range criteria.Queries {
		term := term
		if term == "" {
			continue
		}
		g.Go(func() error {
			results, err := h.store.QueryPostsFulltext(gctx, term)
			if err != nil {
				return err
			}
			board.add(results, directWeight)
			return nil
		})
	}
	for _, term := range criteria.Users {
		term := term
		if term == "" {
			continue
		}
		g.Go(func() error {
			results, err := h.store.QueryPostsByAuthor(gctx, term)
			if err != nil {
				return err
			}
			board.add(results, oneHopWeight)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	uids := board.ranked()
	if len(uids) == 0 {
		return nil, errors.NewNotFound("post", "no search matches")
	}
	return loadRanked(ctx, uids, h.views.PostFull)
}

// loadRanked resolves ranked uids into views, keeping rank order and
// skipping entities that vanished since the index match
func loadRanked[T any](ctx context.Context, uids []string, load func(context.Context, string) (*T, error)) ([]T, error) {
	result := make([]T, 0, len(uids))
	for _, uid := range uids {
		view, err := load(ctx, uid)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, *view)
	}
	return result, nil
}

// shuffledListing materializes full views for every entity of the label
// and randomizes their order
func shuffledListing[T any](ctx context.Context, b *base, label graph.Label, load func(context.Context, string) (*T, error)) ([]T, error) {
	uids, err := b.store.ListUIDs(ctx, label)
	if err != nil {
		return nil, err
	}
	views, err := loadRanked(ctx, uids, load)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(views), func(i, j int) {
		views[i], views[j] = views[j], views[i]
	})
	return views, nil
}
