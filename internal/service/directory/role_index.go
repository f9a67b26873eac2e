package directory

import (
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
)

// RoleIndex is a point-in-time view of role holders, built once per routing call.
type RoleIndex struct {
	employees     map[string]employee.Employee
	roles         map[string]employee.Role
	departments   map[string]employee.Department
	assignments   []employee.RoleAssignment
	rolesByHolder map[string][]employee.Role
}

func newRoleIndex(employees []employee.Employee, roles []employee.Role, departments []employee.Department, assignments []employee.RoleAssignment) *RoleIndex {
	idx := &RoleIndex{
		employees:     make(map[string]employee.Employee, len(employees)),
		roles:         make(map[string]employee.Role, len(roles)),
		departments:   make(map[string]employee.Department, len(departments)),
		assignments:   assignments,
		rolesByHolder: make(map[string][]employee.Role),
	}
	for _, e := range employees {
		idx.employees[e.ID] = e
	}
	for _, r := range roles {
		idx.roles[r.ID] = r
	}
	for _, d := range departments {
		idx.departments[d.ID] = d
	}
	for _, a := range assignments {
		if r, ok := idx.roles[a.RoleID]; ok {
			idx.rolesByHolder[a.EmployeeID] = append(idx.rolesByHolder[a.EmployeeID], r)
		}
	}
	for id := range idx.rolesByHolder {
		sortByRank(idx.rolesByHolder[id])
	}
	return idx
}

// FindEmployeesWithRole returns holders of any role matching pred who may act
// as approvers (active or notice_period). Order follows the assignment order
// and each employee appears once.
func (idx *RoleIndex) FindEmployeesWithRole(pred func(r employee.Role) bool) []employee.Employee {
	seen := make(map[string]struct{})
	out := make([]employee.Employee, 0)
	for _, a := range idx.assignments {
		role, ok := idx.roles[a.RoleID]
		if !ok || !pred(role) {
			continue
		}
		e, ok := idx.employees[a.EmployeeID]
		if !ok || !e.CanApprove() {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// RolesOf returns the roles held by employeeID, most senior first.
func (idx *RoleIndex) RolesOf(employeeID string) []employee.Role {
	return idx.rolesByHolder[employeeID]
}

func (idx *RoleIndex) Department(id string) (employee.Department, bool) {
	d, ok := idx.departments[id]
	return d, ok
}

// HasRoleNamed reports whether employeeID holds a role with exactly name.
func (idx *RoleIndex) HasRoleNamed(employeeID, name string) bool {
	for _, r := range idx.rolesByHolder[employeeID] {
		if r.Name == name {
			return true
		}
	}
	return false
}
