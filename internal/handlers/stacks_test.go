package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamnet/internal/graph"
	"teamnet/internal/model"
	"teamnet/pkg/errors"
)

func TestStacks_Insert_NormalizesType(t *testing.T) {
	f := newFixture(t)

	full, err := f.h.Stacks.Insert(context.Background(), model.CreateStackReq{
		Name: "Kubernetes",
		Type: "DevOps",
	})
	require.NoError(t, err)
	assert.Equal(t, "devops", full.Type)
}

func TestStacks_Insert_RejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.h.Stacks.Insert(context.Background(), model.CreateStackReq{
		Name: "Crystal Ball",
		Type: "fortune-telling",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestStacks_Insert_DuplicateNameCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.Stacks.Insert(ctx, model.CreateStackReq{Name: "Go", Type: "backend"})
	require.NoError(t, err)

	_, err = f.h.Stacks.Insert(ctx, model.CreateStackReq{Name: "go", Type: "backend"})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestStacks_PartOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent, err := f.h.Stacks.Insert(ctx, model.CreateStackReq{Name: "Databases", Type: "database"})
	require.NoError(t, err)

	child, err := f.h.Stacks.Insert(ctx, model.CreateStackReq{
		Name: "Neo4j", Type: "database", PartOf: strPtr(parent.UID),
	})
	require.NoError(t, err)
	require.NotNil(t, child.PartOf)
	assert.Equal(t, "Databases", child.PartOf.Name)

	// Clearing the parent detaches the stack
	updated, err := f.h.Stacks.Update(ctx, child.UID, model.UpdateStackReq{PartOf: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.PartOf)
}

func TestStacks_PartOfSelfRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stack, err := f.h.Stacks.Insert(ctx, model.CreateStackReq{Name: "Go", Type: "backend"})
	require.NoError(t, err)

	_, err = f.h.Stacks.Update(ctx, stack.UID, model.UpdateStackReq{PartOf: strPtr(stack.UID)})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCompanies_InsertWithLocations(t *testing.T) {
	f := newFixture(t)

	full, err := f.h.Companies.Insert(context.Background(), model.CreateCompanyReq{
		Name: "Initech",
		Locations: []model.LocationReq{
			{Country: "US", City: "Austin", Address: "4120 Freidrich Ln"},
		},
	})
	require.NoError(t, err)
	require.Len(t, full.Locations, 1)
	assert.Equal(t, "Austin", full.Locations[0].City)
}

func TestCompanies_EmployeeAggregatesStacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stackUID := seedStack(t, f, "Go")

	company, err := f.h.Companies.Insert(ctx, model.CreateCompanyReq{Name: "Initech"})
	require.NoError(t, err)

	_, err = f.h.Users.Insert(ctx, model.CreateUserReq{
		Email:      "ada@example.com",
		Name:       "Ada",
		CompanyUID: strPtr(company.UID),
		Stacks:     slicePtr(stackUID),
	})
	require.NoError(t, err)

	full, err := f.h.Companies.GetByUID(ctx, company.UID)
	require.NoError(t, err)
	require.Len(t, full.Employees, 1)
	require.Len(t, full.Stacks, 1, "company stacks aggregate employee stacks")
	assert.Equal(t, "Go", full.Stacks[0].Name)
}

func TestCompanies_DeleteRemovesLocations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	company, err := f.h.Companies.Insert(ctx, model.CreateCompanyReq{
		Name:      "Initech",
		Locations: []model.LocationReq{{Country: "US", City: "Austin", Address: "x"}},
	})
	require.NoError(t, err)
	locationUID := company.Locations[0].UID

	require.NoError(t, f.h.Companies.Delete(ctx, company.UID))

	_, found, err := f.store.FindByProperty(ctx, "Location", "uid", locationUID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCompanies_DeleteDetachesEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userUID := seedUser(t, f, "Ada", "ada@example.com")

	company, err := f.h.Companies.Insert(ctx, model.CreateCompanyReq{
		Name:  "Initech",
		Users: slicePtr(userUID),
	})
	require.NoError(t, err)

	view, err := f.h.Users.GetByUID(ctx, userUID)
	require.NoError(t, err)
	require.NotNil(t, view.Company)

	require.NoError(t, f.h.Companies.Delete(ctx, company.UID))

	view, err = f.h.Users.GetByUID(ctx, userUID)
	require.NoError(t, err)
	assert.Nil(t, view.Company)
}

func TestCompanies_UpdateReassignsEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userUID := seedUser(t, f, "Ada", "ada@example.com")

	_, err := f.h.Companies.Insert(ctx, model.CreateCompanyReq{
		Name:  "Initech",
		Users: slicePtr(userUID),
	})
	require.NoError(t, err)

	second, err := f.h.Companies.Insert(ctx, model.CreateCompanyReq{Name: "Hooli"})
	require.NoError(t, err)

	_, err = f.h.Companies.Update(ctx, second.UID, model.UpdateCompanyReq{
		Users: slicePtr(userUID),
	})
	require.NoError(t, err)

	employers, err := f.store.Neighbors(ctx, graph.LabelUser, userUID, graph.UserWorksFor)
	require.NoError(t, err)
	require.Len(t, employers, 1, "a user holds a single employer")
	assert.Equal(t, second.UID, employers[0])

	view, err := f.h.Users.GetByUID(ctx, userUID)
	require.NoError(t, err)
	require.NotNil(t, view.Company)
	assert.Equal(t, "Hooli", view.Company.Name)
}

func TestSoftwares_InsertAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	companyUID := seedCompany(t, f, "Initech")
	stackUID := seedStack(t, f, "Go")

	full, err := f.h.Softwares.Insert(ctx, model.CreateSoftwareReq{
		Name:       "TPS Reporter",
		Problem:    "reports were manual",
		CompanyUID: strPtr(companyUID),
		Stacks:     slicePtr(stackUID),
	})
	require.NoError(t, err)
	require.NotNil(t, full.Company)
	assert.Equal(t, "Initech", full.Company.Name)
	require.Len(t, full.Stacks, 1)

	updated, err := f.h.Softwares.Update(ctx, full.UID, model.UpdateSoftwareReq{
		Solution:   strPtr("automated them"),
		CompanyUID: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "automated them", updated.Solution)
	assert.Nil(t, updated.Company)
	require.Len(t, updated.Stacks, 1, "untouched relation survives the update")
}

func TestSoftwares_Insert_UnknownContributor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.Softwares.Insert(ctx, model.CreateSoftwareReq{
		Name:           "TPS Reporter",
		ContributorUID: strPtr("ghost"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRelation(err))

	// The half-created node must not survive
	uids, err := f.store.ListUIDs(ctx, graph.LabelSoftware)
	require.NoError(t, err)
	assert.Empty(t, uids)
}
