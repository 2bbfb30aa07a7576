package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Stacks implements the stack entity operations
type Stacks struct {
	*base
}

var allowedStackTypes = []string{"devops", "frontend", "backend", "database"}

// normalizeStackType lowercases the type and validates it against the
// allowed set, so "DevOps" and "devops" are the same type
func normalizeStackType(raw string) (string, error) {
	t := strings.ToLower(raw)
	for _, allowed := range allowedStackTypes {
		if t == allowed {
			return t, nil
		}
	}
	return "", errors.NewValidation("type", "must be one of: "+strings.Join(allowedStackTypes, ", "))
}

// Insert creates a stack, optionally nested under a parent stack
func (h *Stacks) Insert(ctx context.Context, req model.CreateStackReq) (*model.StackFull, error) {
	stackType, err := normalizeStackType(req.Type)
	if err != nil {
		return nil, err
	}

	taken, err := h.nameTaken(ctx, graph.LabelStack, req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAlreadyExists("stack", req.Name)
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelStack, map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"type":        stackType,
		"image":       req.Image,
	})
	if err != nil {
		return nil, err
	}

	if err := h.patchParent(ctx, uid, req.PartOf); err != nil {
		h.rollbackCreate(ctx, graph.LabelStack, uid)
		return nil, err
	}

	h.refreshStacks()
	return h.views.StackFull(ctx, uid)
}

// Update merges scalar fields and replaces the parent when one is given
func (h *Stacks) Update(ctx context.Context, uid string, req model.UpdateStackReq) (*model.StackFull, error) {
	fields := map[string]interface{}{}
	if req.Type != nil {
		stackType, err := normalizeStackType(*req.Type)
		if err != nil {
			return nil, err
		}
		fields["type"] = stackType
	}
	if req.Name != nil {
		taken, err := h.nameTaken(ctx, graph.LabelStack, *req.Name, uid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.NewAlreadyExists("stack", *req.Name)
		}
	}
	setIfNotNil(fields, "name", req.Name)
	setIfNotNil(fields, "description", req.Description)
	setIfNotNil(fields, "image", req.Image)

	if err := h.store.UpdateNode(ctx, graph.LabelStack, uid, fields); err != nil {
		return nil, err
	}

	if err := h.patchParent(ctx, uid, req.PartOf); err != nil {
		return nil, err
	}

	h.clearSimple(ctx, "stack", uid)

	h.refreshStacks()
	return h.views.StackFull(ctx, uid)
}

// Delete removes a stack, its stored image, and the cached views of its
// former neighbors
func (h *Stacks) Delete(ctx context.Context, uid string) error {
	record, err := h.store.NodeView(ctx, graph.LabelStack, uid)
	if err != nil {
		return err
	}

	neighborKeys := []string{}
	for _, link := range []struct {
		rel        graph.Rel
		entityType string
	}{
		{graph.StackKnownBy, "user"},
		{graph.StackSoftwares, "software"},
		{graph.StackPartOf, "stack"},
	} {
		uids, err := h.store.Neighbors(ctx, graph.LabelStack, uid, link.rel)
		if err != nil {
			return err
		}
		for _, n := range uids {
			neighborKeys = append(neighborKeys, simpleKey(link.entityType, n))
		}
	}

	if err := h.store.DeleteNode(ctx, graph.LabelStack, uid); err != nil {
		return err
	}

	if image, ok := record.Props["image"].(string); ok && image != "" {
		if err := h.assets.Remove(ctx, image); err != nil {
			h.logger.Warn("Failed to remove stack image", zap.String("uid", uid), zap.Error(err))
		}
	}

	h.coord.Clear(ctx, neighborKeys...)
	h.clearSimple(ctx, "stack", uid)

	h.refreshStacks()
	h.refreshUsers()
	h.refreshSoftwares()
	return nil
}

// GetByUID returns the stack's full view
func (h *Stacks) GetByUID(ctx context.Context, uid string) (*model.StackFull, error) {
	return h.views.StackFull(ctx, uid)
}

// ListAll returns all stacks as full views, strongest first
func (h *Stacks) ListAll(ctx context.Context) ([]model.StackFull, error) {
	return h.views.Stacks(ctx)
}

func (h *Stacks) patchParent(ctx context.Context, uid string, partOf *string) error {
	if partOf == nil {
		return nil
	}
	target := partOf
	if *partOf == "" {
		target = nil
	}
	if target != nil && *target == uid {
		return errors.NewValidation("part_of", "a stack cannot be part of itself")
	}
	return h.store.ReplaceSingle(ctx, graph.LabelStack, uid, graph.StackPartOf, target)
}
