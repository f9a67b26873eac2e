package kv

import (
	"context"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
)

type roleRepositoryImpl struct {
	store kvstore.Store
}

func NewRoleRepository(store kvstore.Store) employee.RoleRepository {
	return &roleRepositoryImpl{store: store}
}

func (r *roleRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Role, error) {
	var role employee.Role
	if err := kvstore.GetJSON(ctx, r.store, key(prefixRole, id), &role); err != nil {
		return employee.Role{}, mapNotFound(err, employee.ErrRoleNotFound)
	}
	return role, nil
}

func (r *roleRepositoryImpl) List(ctx context.Context) ([]employee.Role, error) {
	return kvstore.ListJSON[employee.Role](ctx, r.store, prefixRole)
}

func (r *roleRepositoryImpl) Save(ctx context.Context, role employee.Role) error {
	return kvstore.SetJSON(ctx, r.store, key(prefixRole, role.ID), role)
}

type departmentRepositoryImpl struct {
	store kvstore.Store
}

func NewDepartmentRepository(store kvstore.Store) employee.DepartmentRepository {
	return &departmentRepositoryImpl{store: store}
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Department, error) {
	var d employee.Department
	if err := kvstore.GetJSON(ctx, r.store, key(prefixDepartment, id), &d); err != nil {
		return employee.Department{}, mapNotFound(err, employee.ErrDepartmentNotFound)
	}
	return d, nil
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]employee.Department, error) {
	return kvstore.ListJSON[employee.Department](ctx, r.store, prefixDepartment)
}

func (r *departmentRepositoryImpl) Save(ctx context.Context, d employee.Department) error {
	return kvstore.SetJSON(ctx, r.store, key(prefixDepartment, d.ID), d)
}

type roleAssignmentRepositoryImpl struct {
	store kvstore.Store
}

func NewRoleAssignmentRepository(store kvstore.Store) employee.RoleAssignmentRepository {
	return &roleAssignmentRepositoryImpl{store: store}
}

func (r *roleAssignmentRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]employee.RoleAssignment, error) {
	return kvstore.ListJSON[employee.RoleAssignment](ctx, r.store, key(prefixRoleAssignment, employeeID, ""))
}

func (r *roleAssignmentRepositoryImpl) List(ctx context.Context) ([]employee.RoleAssignment, error) {
	return kvstore.ListJSON[employee.RoleAssignment](ctx, r.store, prefixRoleAssignment)
}

func (r *roleAssignmentRepositoryImpl) Assign(ctx context.Context, a employee.RoleAssignment) error {
	return kvstore.SetJSON(ctx, r.store, key(prefixRoleAssignment, a.EmployeeID, a.RoleID), a)
}
