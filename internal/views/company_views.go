package views

import (
	"context"

	"teamnet/internal/graph"
	"teamnet/internal/model"
)

func mapCompanySimple(record *graph.NodeRecord) model.CompanySimple {
	return model.CompanySimple{
		UID:         record.UID,
		Name:        propString(record.Props, "name"),
		Logo:        propString(record.Props, "logo"),
		Description: propString(record.Props, "description"),
		Strength:    record.Strength,
		CreatedAt:   propString(record.Props, "created_at"),
		UpdatedAt:   propString(record.Props, "updated_at"),
	}
}

func mapLocationSimple(record *graph.NodeRecord) model.LocationSimple {
	return model.LocationSimple{
		UID:     record.UID,
		Country: propString(record.Props, "country"),
		City:    propString(record.Props, "city"),
		Address: propString(record.Props, "address"),
	}
}

// CompanySimple returns a company's cached simple view
func (b *Builder) CompanySimple(ctx context.Context, uid string) (*model.CompanySimple, error) {
	return cachedSimple(ctx, b, "company", graph.LabelCompany, uid, mapCompanySimple)
}

// LocationSimple returns a location's cached simple view
func (b *Builder) LocationSimple(ctx context.Context, uid string) (*model.LocationSimple, error) {
	return cachedSimple(ctx, b, "location", graph.LabelLocation, uid, mapLocationSimple)
}

// CompanyFull builds a company's full view. The stack list is the
// aggregate of stacks known by the company's employees, so it reaches
// two hops where everything else stays at one.
func (b *Builder) CompanyFull(ctx context.Context, uid string) (*model.CompanyFull, error) {
	record, err := b.graph.NodeView(ctx, graph.LabelCompany, uid)
	if err != nil {
		return nil, err
	}
	simple := mapCompanySimple(record)
	b.refreshSimple(ctx, "company", uid, simple)

	full := &model.CompanyFull{CompanySimple: simple}

	employeeUIDs, err := b.graph.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanyEmployees)
	if err != nil {
		return nil, err
	}
	if full.Employees, err = expand(ctx, employeeUIDs, b.UserSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Employees, func(u model.UserSimple) int64 { return u.Strength })

	softwareUIDs, err := b.graph.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanySoftwares)
	if err != nil {
		return nil, err
	}
	if full.Softwares, err = expand(ctx, softwareUIDs, b.SoftwareSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Softwares, func(s model.SoftwareSimple) int64 { return s.Strength })

	locationUIDs, err := b.graph.Neighbors(ctx, graph.LabelCompany, uid, graph.CompanyLocations)
	if err != nil {
		return nil, err
	}
	if full.Locations, err = expand(ctx, locationUIDs, b.LocationSimple); err != nil {
		return nil, err
	}

	stackUIDs, err := b.graph.CompanyStacks(ctx, uid)
	if err != nil {
		return nil, err
	}
	if full.Stacks, err = expand(ctx, stackUIDs, b.StackSimple); err != nil {
		return nil, err
	}
	sortByStrength(full.Stacks, func(s model.StackSimple) int64 { return s.Strength })

	return full, nil
}
