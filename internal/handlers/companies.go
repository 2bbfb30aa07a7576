package handlers

import (
	"context"

	"go.uber.org/zap"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Companies implements the company entity operations
type Companies struct {
	*base
}

// Insert creates a company with its locations and relationship sets
func (h *Companies) Insert(ctx context.Context, req model.CreateCompanyReq) (*model.CompanyFull, error) {
	taken, err := h.nameTaken(ctx, graph.LabelCompany, req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAlreadyExists("company", req.Name)
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelCompany, map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"logo":        req.Logo,
	})
	if err != nil {
		return nil, err
	}

	locationUIDs, err := h.createLocations(ctx, uid, req.Locations)
	if err != nil {
		h.rollbackWithLocations(ctx, uid, locationUIDs)
		return nil, err
	}

	if err := h.patchRelations(ctx, uid, req.Softwares, req.Users); err != nil {
		h.rollbackWithLocations(ctx, uid, locationUIDs)
		return nil, err
	}

	h.refreshCompanies()
	h.refreshUsers()
	h.refreshSoftwares()
	return h.views.CompanyFull(ctx, uid)
}

// Update merges scalar fields, replaces the location set when one is
// given, and replaces any relationship set the request carries
func (h *Companies) Update(ctx context.Context, uid string, req model.UpdateCompanyReq) (*model.CompanyFull, error) {
	if req.Name != nil {
		taken, err := h.nameTaken(ctx, graph.LabelCompany, *req.Name, uid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.NewAlreadyExists("company", *req.Name)
		}
	}

	fields := map[string]interface{}{}
	setIfNotNil(fields, "name", req.Name)
	setIfNotNil(fields, "description", req.Description)
	setIfNotNil(fields, "logo", req.Logo)

	if err := h.store.UpdateNode(ctx, graph.LabelCompany, uid, fields); err != nil {
		return nil, err
	}

	if req.Locations != nil {
		if err := h.replaceLocations(ctx, uid, *req.Locations); err != nil {
			return nil, err
		}
	}

	if err := h.patchRelations(ctx, uid, req.Softwares, req.Users); err != nil {
		return nil, err
	}

	h.clearSimple(ctx, "company", uid)

	h.refreshCompanies()
	h.refreshUsers()
	h.refreshSoftwares()
	return h.views.CompanyFull(ctx, uid)
}

// Delete removes a company, its location nodes, its stored logo, and the
// cached views touched by the disappearing relationships
func (h *Companies) Delete(ctx context.Context, uid string) error {
	record, err := h.store.NodeView(ctx, graph.LabelCompany, uid)
	if err != nil {
		return err
	}

	neighborKeys := []string{}
	employeeUIDs, err := h.store.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanyEmployees)
	if err != nil {
		return err
	}
	for _, u := range employeeUIDs {
		neighborKeys = append(neighborKeys, simpleKey("user", u))
	}
	softwareUIDs, err := h.store.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanySoftwares)
	if err != nil {
		return err
	}
	for _, s := range softwareUIDs {
		neighborKeys = append(neighborKeys, simpleKey("software", s))
	}

	// Location nodes belong to the company; DETACH DELETE would only
	// orphan them
	locationUIDs, err := h.store.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanyLocations)
	if err != nil {
		return err
	}
	for _, l := range locationUIDs {
		if err := h.store.DeleteNode(ctx, graph.LabelLocation, l); err != nil {
			return err
		}
		neighborKeys = append(neighborKeys, simpleKey("location", l))
	}

	if err := h.store.DeleteNode(ctx, graph.LabelCompany, uid); err != nil {
		return err
	}

	if logo, ok := record.Props["logo"].(string); ok && logo != "" {
		if err := h.assets.Remove(ctx, logo); err != nil {
			h.logger.Warn("Failed to remove company logo", zap.String("uid", uid), zap.Error(err))
		}
	}

	h.coord.Clear(ctx, neighborKeys...)
	h.clearSimple(ctx, "company", uid)

	h.refreshCompanies()
	h.refreshUsers()
	h.refreshSoftwares()
	return nil
}

// GetByUID returns the company's full view
func (h *Companies) GetByUID(ctx context.Context, uid string) (*model.CompanyFull, error) {
	return h.views.CompanyFull(ctx, uid)
}

// ListAll returns all companies as full views, strongest first
func (h *Companies) ListAll(ctx context.Context) ([]model.CompanyFull, error) {
	return h.views.Companies(ctx)
}

func (h *Companies) patchRelations(ctx context.Context, uid string, softwares, users *[]string) error {
	if softwares != nil {
		if err := h.store.ReplaceRelationship(ctx, graph.LabelCompany, uid, graph.CompanySoftwares, *softwares); err != nil {
			return err
		}
	}
	if users != nil {
		if err := h.replaceEmployees(ctx, uid, *users); err != nil {
			return err
		}
	}
	return nil
}

// replaceEmployees rewrites the employee set from the user side. A user
// holds at most one WORKS_FOR edge, so each hired user gets that edge
// repointed at this company; a set-replace on the company side would leave
// their old employer attached. Every uid is validated before anything is
// disconnected.
func (h *Companies) replaceEmployees(ctx context.Context, companyUID string, userUIDs []string) error {
	for _, u := range userUIDs {
		exists, err := h.store.NodeExists(ctx, graph.LabelUser, u)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewInvalidRelation(graph.CompanyEmployees.Type, u)
		}
	}
	if err := h.store.DisconnectAll(ctx, graph.LabelCompany, companyUID, graph.CompanyEmployees); err != nil {
		return err
	}
	for _, u := range userUIDs {
		if err := h.store.ReplaceSingle(ctx, graph.LabelUser, u, graph.UserWorksFor, &companyUID); err != nil {
			return err
		}
	}
	return nil
}

func (h *Companies) createLocations(ctx context.Context, companyUID string, locations []model.LocationReq) ([]string, error) {
	uids := []string{}
	for _, loc := range locations {
		locUID, err := h.store.CreateNode(ctx, graph.LabelLocation, map[string]interface{}{
			"country": loc.Country,
			"city":    loc.City,
			"address": loc.Address,
		})
		if err != nil {
			return uids, err
		}
		uids = append(uids, locUID)
		if err := h.store.Connect(ctx, graph.LabelCompany, companyUID, graph.CompanyLocations, locUID); err != nil {
			return uids, err
		}
	}
	return uids, nil
}

func (h *Companies) replaceLocations(ctx context.Context, companyUID string, locations []model.LocationReq) error {
	oldUIDs, err := h.store.Neighbors(ctx, graph.LabelCompany, companyUID, graph.CompanyLocations)
	if err != nil {
		return err
	}
	for _, l := range oldUIDs {
		if err := h.store.DeleteNode(ctx, graph.LabelLocation, l); err != nil {
			return err
		}
		h.clearSimple(ctx, "location", l)
	}
	_, err = h.createLocations(ctx, companyUID, locations)
	return err
}

func (h *Companies) rollbackWithLocations(ctx context.Context, uid string, locationUIDs []string) {
	for _, l := range locationUIDs {
		if err := h.store.DeleteNode(ctx, graph.LabelLocation, l); err != nil {
			h.logger.Error("Failed to roll back location node", zap.String("uid", l), zap.Error(err))
		}
	}
	h.rollbackCreate(ctx, graph.LabelCompany, uid)
}
