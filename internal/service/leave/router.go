package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
)

// ApprovalRouter decides who has to approve a leave request.
type ApprovalRouter struct {
	directory *directory.Directory
}

func NewApprovalRouter(dir *directory.Directory) *ApprovalRouter {
	return &ApprovalRouter{directory: dir}
}

// Route returns approver employee ids in a stable order without duplicates.
// The requester never approves their own leave.
func (r *ApprovalRouter) Route(ctx context.Context, requester employee.Employee, leaveType leave.LeaveType) ([]string, error) {
	idx, err := r.directory.BuildRoleIndex(ctx)
	if err != nil {
		return nil, err
	}

	dept, ok := idx.Department(requester.DepartmentID)
	if !ok {
		return nil, fmt.Errorf("department %q of employee %s: %w", requester.DepartmentID, requester.ID, employee.ErrDepartmentNotFound)
	}
	deptHR := employee.HRRepresentativeRole(dept.Name)

	var groups [][]employee.Employee
	switch leaveType {
	case leave.LeaveTypeAnnual:
		groups = r.annualApprovers(idx, requester, deptHR)
	case leave.LeaveTypeAccidental, leave.LeaveTypeCompensation:
		groups = append(groups, idx.FindEmployeesWithRole(named(deptHR)))
	case leave.LeaveTypeMedical:
		groups = append(groups,
			idx.FindEmployeesWithRole(named(employee.RoleMedicalDoctor)),
			idx.FindEmployeesWithRole(isHRRepresentative),
		)
	case leave.LeaveTypeUnpaid:
		groups = append(groups,
			idx.FindEmployeesWithRole(func(role employee.Role) bool { return role.Rank <= employee.UpperBoardMaxRank }),
			idx.FindEmployeesWithRole(isHRRepresentative),
		)
	default:
		return nil, fmt.Errorf("unsupported leave type %q", leaveType)
	}

	seen := map[string]struct{}{requester.ID: {}}
	approvers := make([]string, 0)
	for _, group := range groups {
		for _, e := range group {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			approvers = append(approvers, e.ID)
		}
	}
	return approvers, nil
}

func (r *ApprovalRouter) annualApprovers(idx *directory.RoleIndex, requester employee.Employee, deptHR string) [][]employee.Employee {
	if idx.HasRoleNamed(requester.ID, employee.RoleDean) || idx.HasRoleNamed(requester.ID, employee.RoleViceDean) {
		return [][]employee.Employee{
			idx.FindEmployeesWithRole(named(employee.RolePresident)),
			idx.FindEmployeesWithRole(named(deptHR)),
		}
	}

	own := idx.RolesOf(requester.ID)
	if isHRRepresentativeHolder(own) {
		minRank := 0
		first := true
		for _, role := range own {
			if role.IsHR() && (first || role.Rank < minRank) {
				minRank = role.Rank
				first = false
			}
		}
		return [][]employee.Employee{
			idx.FindEmployeesWithRole(func(role employee.Role) bool {
				return role.IsHR() && role.Rank < minRank
			}),
		}
	}

	deans := idx.FindEmployeesWithRole(named(employee.RoleDean))
	sameDept := make([]employee.Employee, 0, len(deans))
	for _, e := range deans {
		if e.DepartmentID == requester.DepartmentID {
			sameDept = append(sameDept, e)
		}
	}
	return [][]employee.Employee{sameDept, idx.FindEmployeesWithRole(named(deptHR))}
}

func named(name string) func(employee.Role) bool {
	return func(role employee.Role) bool { return role.Name == name }
}

func isHRRepresentative(role employee.Role) bool {
	return role.IsHRRepresentative()
}

func isHRRepresentativeHolder(roles []employee.Role) bool {
	for _, role := range roles {
		if role.IsHRRepresentative() {
			return true
		}
	}
	return false
}
