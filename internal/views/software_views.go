package views

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
)

func mapSoftwareSimple(record *graph.NodeRecord) model.SoftwareSimple {
	return model.SoftwareSimple{
		UID:         record.UID,
		Name:        propString(record.Props, "name"),
		Client:      propString(record.Props, "client"),
		ProjectType: propString(record.Props, "project_type"),
		Problem:     propString(record.Props, "problem"),
		Solution:    propString(record.Props, "solution"),
		Comments:    propString(record.Props, "comments"),
		Link:        propString(record.Props, "link"),
		Image:       propString(record.Props, "image"),
		Strength:    record.Strength,
		CreatedAt:   propString(record.Props, "created_at"),
		UpdatedAt:   propString(record.Props, "updated_at"),
	}
}

// SoftwareSimple returns a software's cached simple view
func (b *Builder) SoftwareSimple(ctx context.Context, uid string) (*model.SoftwareSimple, error) {
	return cachedSimple(ctx, b, "software", graph.LabelSoftware, uid, mapSoftwareSimple)
}

// SoftwareFull builds a software's full view
func (b *Builder) SoftwareFull(ctx context.Context, uid string) (*model.SoftwareFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelSoftware, uid)
	if err != nil {
		return nil, err
	}
	simple := mapSoftwareSimple(record)
	b.refreshSimple(ctx, "software", uid, simple)

	full := &model.SoftwareFull{SoftwareSimple: simple}

	companyUIDs, err := b.graph.Neighbors(ctx, graph.LabelSoftware, uid, graph.SoftwareCreatedBy)
	if err != nil {
		return nil, err
	}
	if full.Company, err = expandSingle(ctx, companyUIDs, b.CompanySimple); err != nil {
		return nil, err
	}

	stackUIDs, err := b.graph.Neighbors(ctx, graph.LabelSoftware, uid, graph.SoftwareStacks)
	if err != nil {
		return nil, err
	}
	if full.Stacks, err = expand(ctx, stackUIDs, b.StackSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Stacks, func(s model.StackSimple) int64 { return s.Strength })

	userUIDs, err := b.graph.Neighbors(ctx, graph.LabelSoftware, uid, graph.SoftwareContributors)
	if err != nil {
		return nil, err
	}
	if full.Users, err = expand(ctx, userUIDs, b.UserSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Users, func(u model.UserSimple) int64 { return u.Strength })

	postUIDs, err := b.graph.Neighbors(ctx, graph.LabelSoftware, uid, graph.SoftwareTaggedOn)
	if err != nil {
		return nil, err
	}
	if full.Posts, err = expand(ctx, postUIDs, b.PostSimple); err != nil {
		return nil, err
	}
	sortByNewest(full.Posts, func(p model.PostSimple) string { return p.CreatedAt })

	return full, nil
}
