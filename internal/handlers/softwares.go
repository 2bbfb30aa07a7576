package handlers

import (
	"context"

	"go.uber.org/zap"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Softwares implements the software entity operations
type Softwares struct {
	*base
}

// Insert creates a software project. The creating company and first
// contributor are optional single relations.
func (h *Softwares) Insert(ctx context.Context, req model.CreateSoftwareReq) (*model.SoftwareFull, error) {
	taken, err := h.nameTaken(ctx, graph.LabelSoftware, req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAlreadyExists("software", req.Name)
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelSoftware, map[string]interface{}{
		"name":         req.Name,
		"client":       req.Client,
		"project_type": req.ProjectType,
		"problem":      req.Problem,
		"solution":     req.Solution,
		"comments":     req.Comments,
		"link":         req.Link,
		"image":        req.Image,
	})
	if err != nil {
		return nil, err
	}

	if err := h.patchRelations(ctx, uid, req.CompanyUID, req.Stacks); err != nil {
		h.rollbackCreate(ctx, graph.LabelSoftware, uid)
		return nil, err
	}
	if req.ContributorUID != nil && *req.ContributorUID != "" {
		// Connect alone would match zero rows for an unknown uid and
		// report nothing
		exists, err := h.store.NodeExists(ctx, graph.LabelUser, *req.ContributorUID)
		if err != nil {
			h.rollbackCreate(ctx, graph.LabelSoftware, uid)
			return nil, err
		}
		if !exists {
			h.rollbackCreate(ctx, graph.LabelSoftware, uid)
			return nil, errors.NewInvalidRelation(graph.SoftwareContributors.Type, *req.ContributorUID)
		}
		if err := h.store.Connect(ctx, graph.LabelSoftware, uid, graph.SoftwareContributors, *req.ContributorUID); err != nil {
			h.rollbackCreate(ctx, graph.LabelSoftware, uid)
			return nil, err
		}
	}

	h.refreshSoftwares()
	h.refreshCompanies()
	h.refreshStacks()
	h.refreshUsers()
	return h.views.SoftwareFull(ctx, uid)
}

// Update merges scalar fields and replaces any relationship set the
// request carries
func (h *Softwares) Update(ctx context.Context, uid string, req model.UpdateSoftwareReq) (*model.SoftwareFull, error) {
	if req.Name != nil {
		taken, err := h.nameTaken(ctx, graph.LabelSoftware, *req.Name, uid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.NewAlreadyExists("software", *req.Name)
		}
	}

	fields := map[string]interface{}{}
	setIfNotNil(fields, "name", req.Name)
	setIfNotNil(fields, "client", req.Client)
	setIfNotNil(fields, "project_type", req.ProjectType)
	setIfNotNil(fields, "problem", req.Problem)
	setIfNotNil(fields, "solution", req.Solution)
	setIfNotNil(fields, "comments", req.Comments)
	setIfNotNil(fields, "link", req.Link)
	setIfNotNil(fields, "image", req.Image)

	if err := h.store.UpdateNode(ctx, graph.LabelSoftware, uid, fields); err != nil {
		return nil, err
	}

	if err := h.patchRelations(ctx, uid, req.CompanyUID, req.Stacks); err != nil {
		return nil, err
	}

	h.clearSimple(ctx, "software", uid)

	h.refreshSoftwares()
	h.refreshCompanies()
	h.refreshStacks()
	return h.views.SoftwareFull(ctx, uid)
}

// Delete removes a software project, its stored image, and the cached
// views of its former neighbors
func (h *Softwares) Delete(ctx context.Context, uid string) error {
	record, err := h.store.NodeView(ctx, graph.LabelSoftware, uid)
	if err != nil {
		return err
	}

	neighborKeys := []string{}
	for _, link := range []struct {
		rel        graph.Rel
		entityType string
	}{
		{graph.SoftwareCreatedBy, "company"},
		{graph.SoftwareStacks, "stack"},
		{graph.SoftwareContributors, "user"},
	} {
		uids, err := h.store.Neighbors(ctx, graph.LabelSoftware, uid, link.rel)
		if err != nil {
			return err
		}
		for _, n := range uids {
			neighborKeys = append(neighborKeys, simpleKey(link.entityType, n))
		}
	}

	if err := h.store.DeleteNode(ctx, graph.LabelSoftware, uid); err != nil {
		return err
	}

	if image, ok := record.Props["image"].(string); ok && image != "" {
		if err := h.assets.Remove(ctx, image); err != nil {
			h.logger.Warn("Failed to remove software image", zap.String("uid", uid), zap.Error(err))
		}
	}

	h.coord.Clear(ctx, neighborKeys...)
	h.clearSimple(ctx, "software", uid)

	h.refreshSoftwares()
	h.refreshCompanies()
	h.refreshStacks()
	h.refreshUsers()
	return nil
}

// GetByUID returns the software's full view
func (h *Softwares) GetByUID(ctx context.Context, uid string) (*model.SoftwareFull, error) {
	return h.views.SoftwareFull(ctx, uid)
}

// ListAll returns all software entries as full views, strongest first
func (h *Softwares) ListAll(ctx context.Context) ([]model.SoftwareFull, error) {
	return h.views.Softwares(ctx)
}

func (h *Softwares) patchRelations(ctx context.Context, uid string, companyUID *string, stacks *[]string) error {
	if companyUID != nil {
		target := companyUID
		if *companyUID == "" {
			target = nil
		}
		if err := h.store.ReplaceSingle(ctx, graph.LabelSoftware, uid, graph.SoftwareCreatedBy, target); err != nil {
			return err
		}
	}
	if stacks != nil {
		if err := h.store.ReplaceRelationship(ctx, graph.LabelSoftware, uid, graph.SoftwareStacks, *stacks); err != nil {
			return err
		}
	}
	return nil
}
