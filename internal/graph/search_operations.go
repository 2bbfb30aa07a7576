package graph

import (
	"context"
	"fmt"
)

// ============================================================================
// Search Operations
//
// Search runs against the per-label full-text indexes. A direct query
// returns the indexed nodes themselves; a Traversal query follows one or two
// relationship hops from the matched node to a different entity type, so
// e.g. a stack term can surface the companies whose employees know that
// stack. Weighting and score accumulation live with the handlers; this
// layer only returns raw (uid, relevance) pairs.
// ============================================================================

// Scored pairs an entity uid with a full-text relevance score
type Scored struct {
	UID   string
	Score float64
}

// Traversal names a relationship path from a full-text match to a target
// entity type. The Cypher fragment binds the matched node to n and must
// bind the target to m.
type Traversal struct {
	Name  string
	Match string
}

var (
	// one hop
	UserToCompany     = Traversal{"user_to_company", "MATCH (n)-[:WORKS_FOR]->(m:Company)"}
	SoftwareToCompany = Traversal{"software_to_company", "MATCH (n)-[:CREATED_BY]->(m:Company)"}
	CompanyToUser     = Traversal{"company_to_user", "MATCH (m:User)-[:WORKS_FOR]->(n)"}
	SoftwareToUser    = Traversal{"software_to_user", "MATCH (m:User)-[:WORKED_ON]->(n)"}
	StackToUser       = Traversal{"stack_to_user", "MATCH (m:User)-[:KNOWS]->(n)"}
	UserToStack       = Traversal{"user_to_stack", "MATCH (n)-[:KNOWS]->(m:Stack)"}
	SoftwareToStack   = Traversal{"software_to_stack", "MATCH (n)-[:BUILDED_WITH]->(m:Stack)"}
	CompanyToSoftware = Traversal{"company_to_software", "MATCH (m:Software)-[:CREATED_BY]->(n)"}
	UserToSoftware    = Traversal{"user_to_software", "MATCH (n)-[:WORKED_ON]->(m:Software)"}
	StackToSoftware   = Traversal{"stack_to_software", "MATCH (m:Software)-[:BUILDED_WITH]->(n)"}

	// two hops. A stack term reaches a company through either path: an
	// employee who knows the stack, or a software the company created
	// that is built with it.
	StackToCompany = Traversal{"stack_to_company", "MATCH (m:Company) WHERE (n)<-[:KNOWS]-(:User)-[:WORKS_FOR]->(m) OR (n)<-[:BUILDED_WITH]-(:Software)-[:CREATED_BY]->(m)"}
	CompanyToStack = Traversal{"company_to_stack", "MATCH (n)<-[:CREATED_BY]-(:Software)-[:BUILDED_WITH]->(m:Stack)"}
)

// QueryFulltext runs a full-text query against an index, returning the
// matched nodes' uids and relevance scores, best first
func (r *Repository) QueryFulltext(ctx context.Context, index, term string) ([]Scored, error) {
	query := `
		CALL db.index.fulltext.queryNodes($index, $term) YIELD node AS n, score
		RETURN n.uid AS uid, score
		ORDER BY score DESC
	`
	return r.runScored(ctx, query, map[string]interface{}{
		"index": index,
		"term":  term,
	})
}

// QueryFulltextVia runs a full-text query and follows the traversal to the
// target entity type, returning the targets' uids with the match scores
func (r *Repository) QueryFulltextVia(ctx context.Context, index, term string, via Traversal) ([]Scored, error) {
	query := fmt.Sprintf(`
		CALL db.index.fulltext.queryNodes($index, $term) YIELD node AS n, score
		%s
		RETURN DISTINCT m.uid AS uid, score
		ORDER BY score DESC
	`, via.Match)
	return r.runScored(ctx, query, map[string]interface{}{
		"index": index,
		"term":  term,
	})
}

// QueryPostsFulltext searches the post index with a recency decay: a post
// loses 0.3 relevance per three days of age, so fresh posts outrank stale
// ones at equal text relevance
func (r *Repository) QueryPostsFulltext(ctx context.Context, term string) ([]Scored, error) {
	query := `
		CALL db.index.fulltext.queryNodes("post_Index", $term) YIELD node AS n, score
		WITH n, score, datetime().epochSeconds - datetime(n.created_at).epochSeconds AS age
		RETURN n.uid AS uid, score - floor(age / (3 * 24 * 60 * 60)) * 0.3 AS score
		ORDER BY score DESC
	`
	return r.runScored(ctx, query, map[string]interface{}{"term": term})
}

// QueryPostsByAuthor searches the user index and returns the matched users'
// posts, with the same recency decay as QueryPostsFulltext
func (r *Repository) QueryPostsByAuthor(ctx context.Context, term string) ([]Scored, error) {
	query := `
		CALL db.index.fulltext.queryNodes("user_Index", $term) YIELD node AS u, score
		MATCH (n:Post)-[:CREATED_BY]->(u)
		WITH n, score, datetime().epochSeconds - datetime(n.created_at).epochSeconds AS age
		RETURN n.uid AS uid, score - floor(age / (3 * 24 * 60 * 60)) * 0.3 AS score
		ORDER BY score DESC
	`
	return r.runScored(ctx, query, map[string]interface{}{"term": term})
}

func (r *Repository) runScored(ctx context.Context, query string, params map[string]interface{}) ([]Scored, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to run search query: %w", err)
	}

	scored := []Scored{}
	for result.Next(ctx) {
		record := result.Record()
		scored = append(scored, Scored{
			UID:   getStringFromRecord(record, "uid"),
			Score: getFloat64FromRecord(record, "score"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to collect search results: %w", err)
	}
	return scored, nil
}

// ============================================================================
// Two-hop expansions used by full views
// ============================================================================

// CompanyStacks returns the stacks known by a company's employees
func (r *Repository) CompanyStacks(ctx context.Context, companyUID string) ([]string, error) {
	query := `
		MATCH (s:Stack)<-[:KNOWS]-(:User)-[:WORKS_FOR]->(c:Company {uid: $uid})
		RETURN DISTINCT s.uid AS uid
	`
	return r.runUIDs(ctx, query, map[string]interface{}{"uid": companyUID})
}

// StackCompanies returns the companies whose employees know the stack
func (r *Repository) StackCompanies(ctx context.Context, stackUID string) ([]string, error) {
	query := `
		MATCH (s:Stack {uid: $uid})<-[:KNOWS]-(:User)-[:WORKS_FOR]->(c:Company)
		RETURN DISTINCT c.uid AS uid
	`
	return r.runUIDs(ctx, query, map[string]interface{}{"uid": stackUID})
}

func (r *Repository) runUIDs(ctx context.Context, query string, params map[string]interface{}) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to run traversal query: %w", err)
	}

	uids := []string{}
	for result.Next(ctx) {
		uids = append(uids, getStringFromRecord(result.Record(), "uid"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to collect traversal results: %w", err)
	}
	return uids, nil
}
