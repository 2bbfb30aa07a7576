package views

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
)

func mapStackSimple(record *graph.NodeRecord) model.StackSimple {
	return model.StackSimple{
		UID:         record.UID,
		Name:        propString(record.Props, "name"),
		Description: propString(record.Props, "description"),
		Type:        propString(record.Props, "type"),
		Image:       propString(record.Props, "image"),
		Strength:    record.Strength,
		CreatedAt:   propString(record.Props, "created_at"),
		UpdatedAt:   propString(record.Props, "updated_at"),
	}
}

// StackSimple returns a stack's cached simple view
func (b *Builder) StackSimple(ctx context.Context, uid string) (*model.StackSimple, error) {
	return cachedSimple(ctx, b, "stack", graph.LabelStack, uid, mapStackSimple)
}

// StackFull builds a stack's full view. The parent expansion uses the
// parent's simple view, so PART_OF chains resolve one level regardless
// of depth. The company list aggregates the employers of users who know
// the stack.
func (b *Builder) StackFull(ctx context.Context, uid string) (*model.StackFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelStack, uid)
	if err != nil {
		return nil, err
	}
	simple := mapStackSimple(record)
	b.refreshSimple(ctx, "stack", uid, simple)

	full := &model.StackFull{StackSimple: simple}

	parentUIDs, err := b.graph.Neighbors(ctx, graph.LabelStack, uid, graph.StackPartOf)
	if err != nil {
		return nil, err
	}
	if full.PartOf, err = expandSingle(ctx, parentUIDs, b.StackSimple); err != nil {
		return nil, err
	}

	userUIDs, err := b.graph.Neighbors(ctx, graph.LabelStack, uid, graph.StackKnownBy)
	if err != nil {
		return nil, err
	}
	if full.Users, err = expand(ctx, userUIDs, b.UserSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Users, func(u model.UserSimple) int64 { return u.Strength })

	softwareUIDs, err := b.graph.Neighbors(ctx, graph.LabelStack, uid, graph.StackSoftwares)
	if err != nil {
		return nil, err
	}
	if full.Softwares, err = expand(ctx, softwareUIDs, b.SoftwareSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Softwares, func(s model.SoftwareSimple) int64 { return s.Strength })

	companyUIDs, err := b.graph.StackCompanies(ctx, uid)
	if err != nil {
		return nil, err
	}
	if full.Companies, err = expand(ctx, companyUIDs, b.CompanySimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Companies, func(c model.CompanySimple) int64 { return c.Strength })

	postUIDs, err := b.graph.Neighbors(ctx, graph.LabelStack, uid, graph.StackTaggedOn)
	if err != nil {
		return nil, err
	}
	if full.Posts, err = expand(ctx, postUIDs, b.PostSimple); err != nil {
		return nil, err
	}
	sortByNewest(full.Posts, func(p model.PostSimple) string { return p.CreatedAt })

	return full, nil
}
