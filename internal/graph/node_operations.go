package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"teamnet/pkg/errors"
)

// NodeRecord is a node's properties plus its relationship cardinalities: the
// per-set counts and their sum (the strength score). One graph read produces
// everything a simple view needs.
type NodeRecord struct {
	UID      string
	Props    map[string]interface{}
	Counts   map[Rel]int64
	Strength int64
}

// NameUID pairs an entity's uid with its name
type NameUID struct {
	UID  string
	Name string
}

// CreateNode creates a node with a generated uid and timestamps, returning
// the uid
func (r *Repository) CreateNode(ctx context.Context, label Label, props map[string]interface{}) (string, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	uid := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	all := make(map[string]interface{}, len(props)+3)
	for k, v := range props {
		all[k] = v
	}
	all["uid"] = uid
	all["created_at"] = now
	all["updated_at"] = now

	query := fmt.Sprintf("CREATE (n:%s $props) RETURN n.uid AS uid", label)
	result, err := session.Run(ctx, query, map[string]interface{}{"props": all})
	if err != nil {
		return "", fmt.Errorf("failed to create %s node: %w", label, err)
	}
	if _, err := result.Single(ctx); err != nil {
		return "", fmt.Errorf("failed to verify %s creation: %w", label, err)
	}

	r.logger.Info("Node created",
		zap.String("label", string(label)),
		zap.String("uid", uid),
	)
	return uid, nil
}

// NodeExists reports whether a node with the given uid exists
func (r *Repository) NodeExists(ctx context.Context, label Label, uid string) (bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {uid: $uid}) RETURN n.uid LIMIT 1", label)
	result, err := session.Run(ctx, query, map[string]interface{}{"uid": uid})
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", label, err)
	}
	exists := result.Next(ctx)
	if err := result.Err(); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", label, err)
	}
	return exists, nil
}

// FindByProperty returns the uid of the first node whose property matches
// the given value. found is false when no node matches.
func (r *Repository) FindByProperty(ctx context.Context, label Label, property string, value interface{}) (string, bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {%s: $value}) RETURN n.uid AS uid LIMIT 1", label, property)
	result, err := session.Run(ctx, query, map[string]interface{}{"value": value})
	if err != nil {
		return "", false, fmt.Errorf("failed to find %s by %s: %w", label, property, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", false, fmt.Errorf("failed to find %s by %s: %w", label, property, err)
		}
		return "", false, nil
	}
	return getStringFromRecord(result.Record(), "uid"), true, nil
}

// NodeView fetches a node's properties together with the cardinality of each
// of its strength relationship sets, in a single query
func (r *Repository) NodeView(ctx context.Context, label Label, uid string) (*NodeRecord, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	rels := strengthRels[label]

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (n:%s {uid: $uid})\nRETURN n AS node", label)
	for i, rel := range rels {
		fmt.Fprintf(&b, ",\n\tCOUNT { %s } AS c%d", rel.pattern("n", ""), i)
	}

	result, err := session.Run(ctx, b.String(), map[string]interface{}{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s view: %w", label, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch %s view: %w", label, err)
		}
		return nil, errors.NewNotFound(string(label), uid)
	}
	record := result.Record()

	nodeVal, _ := record.Get("node")
	node, ok := nodeVal.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected node value for %s %s", label, uid)
	}

	rec := &NodeRecord{
		UID:    uid,
		Props:  node.Props,
		Counts: make(map[Rel]int64, len(rels)),
	}
	for i, rel := range rels {
		count := getInt64FromRecord(record, fmt.Sprintf("c%d", i))
		rec.Counts[rel] = count
		rec.Strength += count
	}
	return rec, nil
}

// UpdateNode merges the given fields onto a node and bumps updated_at
func (r *Repository) UpdateNode(ctx context.Context, label Label, uid string, fields map[string]interface{}) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)
	query := fmt.Sprintf(`
		MATCH (n:%s {uid: $uid})
		SET n += $fields, n.updated_at = $now
		RETURN n.uid AS uid
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid":    uid,
		"fields": fields,
		"now":    now,
	})
	if err != nil {
		return fmt.Errorf("failed to update %s node: %w", label, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return fmt.Errorf("failed to update %s node: %w", label, err)
		}
		return errors.NewNotFound(string(label), uid)
	}
	return nil
}

// DeleteNode detach-deletes a node, removing every relationship it
// participates in, in both directions, along with the node itself
func (r *Repository) DeleteNode(ctx context.Context, label Label, uid string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n:%s {uid: $uid})
		WITH n, n.uid AS uid
		DETACH DELETE n
		RETURN uid
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{"uid": uid})
	if err != nil {
		return fmt.Errorf("failed to delete %s node: %w", label, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return fmt.Errorf("failed to delete %s node: %w", label, err)
		}
		return errors.NewNotFound(string(label), uid)
	}

	r.logger.Info("Node deleted",
		zap.String("label", string(label)),
		zap.String("uid", uid),
	)
	return nil
}

// ListUIDs returns the uids of every node with the given label
func (r *Repository) ListUIDs(ctx context.Context, label Label) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s) RETURN n.uid AS uid", label)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s nodes: %w", label, err)
	}

	uids := []string{}
	for result.Next(ctx) {
		uids = append(uids, getStringFromRecord(result.Record(), "uid"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s nodes: %w", label, err)
	}
	return uids, nil
}

// ListNames returns uid/name pairs for every node with the given label.
// Used by the post auto-tagger to match entity names mentioned in text.
func (r *Repository) ListNames(ctx context.Context, label Label) ([]NameUID, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s) WHERE n.name IS NOT NULL RETURN n.uid AS uid, n.name AS name", label)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", label, err)
	}

	names := []NameUID{}
	for result.Next(ctx) {
		record := result.Record()
		names = append(names, NameUID{
			UID:  getStringFromRecord(record, "uid"),
			Name: getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", label, err)
	}
	return names, nil
}

// ListPostUIDs returns post uids ordered by update time descending, with
// skip/limit pagination
func (r *Repository) ListPostUIDs(ctx context.Context, skip, limit int) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	query := `
		MATCH (p:Post)
		RETURN p.uid AS uid
		ORDER BY p.updated_at DESC
		SKIP $skip LIMIT $limit
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	uids := []string{}
	for result.Next(ctx) {
		uids = append(uids, getStringFromRecord(result.Record(), "uid"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return uids, nil
}
