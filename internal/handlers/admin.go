package handlers

import (
	"context"

	"go.uber.org/zap"

	"teamnet/internal/cache"
	"teamnet/internal/graph"
)

// Admin carries maintenance operations that span entity types
type Admin struct {
	*base
}

var cachedEntityTypes = map[graph.Label]string{
	graph.LabelUser:     "user",
	graph.LabelCompany:  "company",
	graph.LabelSoftware: "software",
	graph.LabelStack:    "stack",
	graph.LabelPost:     "post",
	graph.LabelComment:  "comment",
}

// ClearCaches drops every cached simple view and the collection listings.
// The next read of each view recomputes it from the graph.
func (h *Admin) ClearCaches(ctx context.Context) error {
	keys := []string{cache.KeyUsers, cache.KeyCompanies, cache.KeySoftwares, cache.KeyStacks}
	for label, entityType := range cachedEntityTypes {
		uids, err := h.store.ListUIDs(ctx, label)
		if err != nil {
			return err
		}
		for _, uid := range uids {
			keys = append(keys, simpleKey(entityType, uid))
		}
	}
	h.coord.Clear(ctx, keys...)
	h.logger.Info("Cleared all cached views", zap.Int("keys", len(keys)))
	return nil
}
