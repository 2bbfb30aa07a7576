package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamnet/internal/auth"
	"teamnet/internal/graph"
	"teamnet/internal/mail"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

// Users implements the user entity operations
type Users struct {
	*base
	mail            mail.Sender
	jwtSecret       string
	tokenExpiryDays int
}

// Insert creates a user, patches its relationships, and mails the
// generated initial password. A failed relationship patch removes the
// node again so no half-wired user survives.
func (h *Users) Insert(ctx context.Context, req model.CreateUserReq) (*model.UserFull, error) {
	_, found, err := h.store.FindByProperty(ctx, graph.LabelUser, "email", req.Email)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errors.NewAlreadyExists("user", req.Email)
	}

	password, err := auth.GeneratePassword(10)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	uid, err := h.store.CreateNode(ctx, graph.LabelUser, map[string]interface{}{
		"email":          req.Email,
		"name":           req.Name,
		"preferred_name": req.PreferredName,
		"role":           req.Role,
		"joined_at":      req.JoinedAt,
		"twitter":        req.Twitter,
		"linkedin":       req.Linkedin,
		"github":         req.Github,
		"picture":        req.Picture,
		"bio":            req.Bio,
		"active":         true,
		"is_superuser":   req.IsSuperuser,
		"password":       hash,
	})
	if err != nil {
		return nil, err
	}

	if err := h.patchRelations(ctx, uid, req.CompanyUID, req.Stacks, req.Softwares); err != nil {
		h.rollbackCreate(ctx, graph.LabelUser, uid)
		return nil, err
	}

	if err := h.mail.SendWelcome(ctx, req.Email, req.Name, password); err != nil {
		h.logger.Warn("Failed to send welcome mail", zap.String("email", req.Email), zap.Error(err))
	}

	h.refreshUsers()
	h.refreshCompanies()
	h.refreshStacks()
	h.refreshSoftwares()
	return h.views.UserFull(ctx, uid)
}

// Update merges scalar fields and replaces any relationship set the
// request carries. Patch errors surface to the caller.
func (h *Users) Update(ctx context.Context, uid string, req model.UpdateUserReq) (*model.UserFull, error) {
	if req.Email != nil {
		otherUID, found, err := h.store.FindByProperty(ctx, graph.LabelUser, "email", *req.Email)
		if err != nil {
			return nil, err
		}
		if found && otherUID != uid {
			return nil, errors.NewAlreadyExists("user", *req.Email)
		}
	}

	fields := map[string]interface{}{}
	setIfNotNil(fields, "email", req.Email)
	setIfNotNil(fields, "name", req.Name)
	setIfNotNil(fields, "preferred_name", req.PreferredName)
	setIfNotNil(fields, "role", req.Role)
	setIfNotNil(fields, "joined_at", req.JoinedAt)
	setIfNotNil(fields, "twitter", req.Twitter)
	setIfNotNil(fields, "linkedin", req.Linkedin)
	setIfNotNil(fields, "github", req.Github)
	setIfNotNil(fields, "picture", req.Picture)
	setIfNotNil(fields, "bio", req.Bio)
	setIfNotNil(fields, "active", req.Active)
	setIfNotNil(fields, "is_superuser", req.IsSuperuser)

	if err := h.store.UpdateNode(ctx, graph.LabelUser, uid, fields); err != nil {
		return nil, err
	}

	if err := h.patchRelations(ctx, uid, req.CompanyUID, req.Stacks, req.Softwares); err != nil {
		return nil, err
	}

	h.clearSimple(ctx, "user", uid)

	h.refreshUsers()
	h.refreshCompanies()
	h.refreshStacks()
	h.refreshSoftwares()
	return h.views.UserFull(ctx, uid)
}

// Delete removes a user and everything hanging off it: relationships go
// with the node, the stored profile picture is removed, and the cached
// views of the user and its former neighbors are dropped.
func (h *Users) Delete(ctx context.Context, uid string) error {
	record, err := h.store.NodeView(ctx, graph.LabelUser, uid)
	if err != nil {
		return err
	}

	neighbors, err := h.neighborKeys(ctx, uid)
	if err != nil {
		return err
	}

	if err := h.store.DeleteNode(ctx, graph.LabelUser, uid); err != nil {
		return err
	}

	if picture, ok := record.Props["picture"].(string); ok && picture != "" {
		if err := h.assets.Remove(ctx, picture); err != nil {
			h.logger.Warn("Failed to remove profile picture", zap.String("uid", uid), zap.Error(err))
		}
	}

	h.coord.Clear(ctx, neighbors...)
	h.clearSimple(ctx, "user", uid)

	h.refreshUsers()
	h.refreshCompanies()
	h.refreshStacks()
	h.refreshSoftwares()
	return nil
}

// GetByUID returns the user's full view
func (h *Users) GetByUID(ctx context.Context, uid string) (*model.UserFull, error) {
	return h.views.UserFull(ctx, uid)
}

// ListAll returns all users as full views, strongest first
func (h *Users) ListAll(ctx context.Context) ([]model.UserFull, error) {
	return h.views.Users(ctx)
}

// Login verifies credentials and issues an access token
func (h *Users) Login(ctx context.Context, email, password string) (string, *model.UserFull, error) {
	uid, found, err := h.store.FindByProperty(ctx, graph.LabelUser, "email", email)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, errors.NewUnauthorized("invalid email or password")
	}

	record, err := h.store.NodeView(ctx, graph.LabelUser, uid)
	if err != nil {
		return "", nil, err
	}
	hash, _ := record.Props["password"].(string)
	if err := auth.VerifyPassword(hash, password); err != nil {
		return "", nil, err
	}
	if active, ok := record.Props["active"].(bool); ok && !active {
		return "", nil, errors.NewUnauthorized("account disabled")
	}

	ttl := time.Duration(h.tokenExpiryDays) * 24 * time.Hour
	token, err := auth.GenerateToken(uid, email, h.jwtSecret, ttl)
	if err != nil {
		return "", nil, err
	}

	full, err := h.views.UserFull(ctx, uid)
	if err != nil {
		return "", nil, err
	}
	return token, full, nil
}

// patchRelations applies the user's relationship sets. A nil set leaves
// that relation untouched; company accepts an empty uid as "no employer".
func (h *Users) patchRelations(ctx context.Context, uid string, companyUID *string, stacks, softwares *[]string) error {
	if companyUID != nil {
		target := companyUID
		if *companyUID == "" {
			target = nil
		}
		if err := h.store.ReplaceSingle(ctx, graph.LabelUser, uid, graph.UserWorksFor, target); err != nil {
			return err
		}
	}
	if stacks != nil {
		if err := h.store.ReplaceRelationship(ctx, graph.LabelUser, uid, graph.UserKnows, *stacks); err != nil {
			return err
		}
	}
	if softwares != nil {
		if err := h.store.ReplaceRelationship(ctx, graph.LabelUser, uid, graph.UserWorkedOn, *softwares); err != nil {
			return err
		}
	}
	return nil
}

// neighborKeys collects the cache keys of entities whose strength
// changes when this user's relationships change
func (h *Users) neighborKeys(ctx context.Context, uid string) ([]string, error) {
	keys := []string{}
	for _, link := range []struct {
		rel        graph.Rel
		entityType string
	}{
		{graph.UserWorksFor, "company"},
		{graph.UserKnows, "stack"},
		{graph.UserWorkedOn, "software"},
	} {
		uids, err := h.store.Neighbors(ctx, graph.LabelUser, uid, link.rel)
		if err != nil {
			return nil, err
		}
		for _, n := range uids {
			keys = append(keys, simpleKey(link.entityType, n))
		}
	}
	return keys, nil
}
