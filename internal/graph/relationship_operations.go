package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"teamnet/pkg/errors"
)

// ============================================================================
// Relationship Operations
//
// ReplaceRelationship implements disconnect-all-then-reconnect semantics for
// one relationship type on one entity. Every desired target is validated
// before anything is disconnected, so an unresolvable uid aborts the whole
// replacement and leaves the existing set untouched. Replacement is not
// atomic against a concurrent replacement of the same set on the same
// entity; last writer wins on the interleaved steps.
// ============================================================================

// Connect creates a single typed edge from src to the target uid. MERGE
// keeps the (source, target, type) triple unique; connecting an already
// connected pair is a no-op.
func (r *Repository) Connect(ctx context.Context, src Label, srcUID string, rel Rel, targetUID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a:%s {uid: $srcUID})
		MATCH (b:%s {uid: $targetUID})
		MERGE %s
	`, src, rel.Target, rel.mergePattern())

	_, err := session.Run(ctx, query, map[string]interface{}{
		"srcUID":    srcUID,
		"targetUID": targetUID,
	})
	if err != nil {
		return fmt.Errorf("failed to connect %s via %s: %w", src, rel.Type, err)
	}
	return nil
}

// Disconnect removes the typed edge between src and the target uid, if any
func (r *Repository) Disconnect(ctx context.Context, src Label, srcUID string, rel Rel, targetUID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a:%s {uid: $srcUID})
		MATCH %s
		WHERE b.uid = $targetUID
		DELETE rl
	`, src, rel.varPattern("a", "rl", "b"))

	_, err := session.Run(ctx, query, map[string]interface{}{
		"srcUID":    srcUID,
		"targetUID": targetUID,
	})
	if err != nil {
		return fmt.Errorf("failed to disconnect %s via %s: %w", src, rel.Type, err)
	}
	return nil
}

// DisconnectAll removes every edge of the given type on src
func (r *Repository) DisconnectAll(ctx context.Context, src Label, srcUID string, rel Rel) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a:%s {uid: $srcUID})
		MATCH %s
		DELETE rl
	`, src, rel.varPattern("a", "rl", "b"))

	_, err := session.Run(ctx, query, map[string]interface{}{"srcUID": srcUID})
	if err != nil {
		return fmt.Errorf("failed to disconnect all %s via %s: %w", src, rel.Type, err)
	}
	return nil
}

// Neighbors returns the uids connected to src under the given relationship,
// in graph traversal order
func (r *Repository) Neighbors(ctx context.Context, src Label, srcUID string, rel Rel) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a:%s {uid: $srcUID})
		MATCH %s
		RETURN b.uid AS uid
	`, src, rel.pattern("a", "b"))

	result, err := session.Run(ctx, query, map[string]interface{}{"srcUID": srcUID})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s neighbors via %s: %w", src, rel.Type, err)
	}

	uids := []string{}
	for result.Next(ctx) {
		uids = append(uids, getStringFromRecord(result.Record(), "uid"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s neighbors via %s: %w", src, rel.Type, err)
	}
	return uids, nil
}

// ReplaceRelationship replaces the full target set of one relationship type
// on one entity. All targets are validated first: a missing uid fails the
// call with an InvalidRelation error before any existing edge is touched.
// On success exactly the supplied targets are connected, in the order given.
// An empty target set disconnects everything.
func (r *Repository) ReplaceRelationship(ctx context.Context, src Label, srcUID string, rel Rel, targetUIDs []string) error {
	for _, target := range targetUIDs {
		exists, err := r.NodeExists(ctx, rel.Target, target)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewInvalidRelation(rel.Type, target)
		}
	}

	if err := r.DisconnectAll(ctx, src, srcUID, rel); err != nil {
		return err
	}
	for _, target := range targetUIDs {
		if err := r.Connect(ctx, src, srcUID, rel, target); err != nil {
			return err
		}
	}

	r.logger.Debug("Relationship set replaced",
		zap.String("label", string(src)),
		zap.String("uid", srcUID),
		zap.String("type", rel.Type),
		zap.Int("targets", len(targetUIDs)),
	)
	return nil
}

// ReplaceSingle replaces a single-valued relation (at most one edge).
// A nil target disconnects the relation entirely.
func (r *Repository) ReplaceSingle(ctx context.Context, src Label, srcUID string, rel Rel, targetUID *string) error {
	if targetUID == nil {
		return r.ReplaceRelationship(ctx, src, srcUID, rel, nil)
	}
	return r.ReplaceRelationship(ctx, src, srcUID, rel, []string{*targetUID})
}

// mergePattern renders the MERGE pattern between bound nodes a and b
func (r Rel) mergePattern() string {
	if r.Dir == Outgoing {
		return "(a)-[:" + r.Type + "]->(b)"
	}
	return "(a)<-[:" + r.Type + "]-(b)"
}
