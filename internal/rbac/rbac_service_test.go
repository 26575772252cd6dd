package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shahadat-technovicinity/school-management-system/internal/rbac/infra"
)

type fakeRepo struct {
	roles   map[string][]EmployeeRoleRow
	perms   map[string][]RolePermissionRow
	seeded  []Permission
	listed  []Permission
	loadErr error
}

func (f *fakeRepo) GetEmployeeRoles(schoolID string) ([]EmployeeRoleRow, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.roles[schoolID], nil
}

func (f *fakeRepo) GetRolePermissions(schoolID string) ([]RolePermissionRow, error) {
	return f.perms[schoolID], nil
}

func (f *fakeRepo) ListPermissions(context.Context) ([]Permission, error) {
	return f.listed, nil
}

func (f *fakeRepo) EnsurePermissions(_ context.Context, perms []Permission) error {
	f.seeded = append(f.seeded, perms...)
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	e, err := infra.NewEnforcer("")
	assert.NoError(t, err)
	return NewService(repo, e)
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRepo{
		roles: map[string][]EmployeeRoleRow{
			"school-1": {{EmployeeID: "emp-1", RoleID: "role-accountant"}},
			"school-2": {{EmployeeID: "emp-1", RoleID: "role-teacher"}},
		},
		perms: map[string][]RolePermissionRow{
			"school-1": {
				{RoleID: "role-accountant", Resource: "salary", Action: "read"},
				{RoleID: "role-accountant", Resource: "salary", Action: "pay"},
			},
			"school-2": {
				{RoleID: "role-teacher", Resource: "employee", Action: "read"},
			},
		},
	}
	svc := newTestService(t, repo)

	tests := []struct {
		name   string
		req    EnforceRequest
		expect bool
	}{
		{"accountant may pay", EnforceRequest{EmployeeID: "emp-1", SchoolID: "school-1", Resource: "salary", Action: "pay"}, true},
		{"accountant may not delete", EnforceRequest{EmployeeID: "emp-1", SchoolID: "school-1", Resource: "salary", Action: "delete"}, false},
		{"other school uses its own roles", EnforceRequest{EmployeeID: "emp-1", SchoolID: "school-2", Resource: "salary", Action: "read"}, false},
		{"unknown employee", EnforceRequest{EmployeeID: "emp-9", SchoolID: "school-1", Resource: "salary", Action: "read"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expect, allowed)
		})
	}
}

func TestRBACService_EnforceLoadError(t *testing.T) {
	svc := newTestService(t, &fakeRepo{loadErr: errors.New("db down")})

	allowed, err := svc.Enforce(EnforceRequest{EmployeeID: "emp-1", SchoolID: "school-1", Resource: "salary", Action: "read"})

	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRBACService_SeedPermissions(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	assert.NoError(t, svc.SeedPermissions(context.Background()))
	assert.Len(t, repo.seeded, len(DefaultPermissions))

	var actions []string
	for _, p := range repo.seeded {
		if p.Resource == "salary" {
			actions = append(actions, p.Action)
		}
	}
	assert.ElementsMatch(t, []string{"read", "create", "update", "delete", "pay", "export"}, actions)
}
