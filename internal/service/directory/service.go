package directory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// Directory answers who holds which role and owns the balance debits.
type Directory struct {
	employee.EmployeeRepository
	employee.RoleRepository
	employee.DepartmentRepository
	employee.RoleAssignmentRepository
}

func NewDirectory(
	employeeRepository employee.EmployeeRepository,
	roleRepository employee.RoleRepository,
	departmentRepository employee.DepartmentRepository,
	roleAssignmentRepository employee.RoleAssignmentRepository,
) *Directory {
	return &Directory{
		EmployeeRepository:       employeeRepository,
		RoleRepository:           roleRepository,
		DepartmentRepository:     departmentRepository,
		RoleAssignmentRepository: roleAssignmentRepository,
	}
}

func (d *Directory) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	return d.EmployeeRepository.GetByID(ctx, id)
}

// RolesOf returns the employee's roles, most senior first.
func (d *Directory) RolesOf(ctx context.Context, employeeID string) ([]employee.Role, error) {
	assignments, err := d.RoleAssignmentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	roles := make([]employee.Role, 0, len(assignments))
	for _, a := range assignments {
		role, err := d.RoleRepository.GetByID(ctx, a.RoleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get role %s: %w", a.RoleID, err)
		}
		roles = append(roles, role)
	}
	sortByRank(roles)
	return roles, nil
}

// BuildRoleIndex snapshots employees, roles, departments and assignments.
func (d *Directory) BuildRoleIndex(ctx context.Context) (*RoleIndex, error) {
	var (
		employees   []employee.Employee
		roles       []employee.Role
		departments []employee.Department
		assignments []employee.RoleAssignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = d.EmployeeRepository.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = d.RoleRepository.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		departments, err = d.DepartmentRepository.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = d.RoleAssignmentRepository.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}

	return newRoleIndex(employees, roles, departments, assignments), nil
}

func (d *Directory) DebitAnnualBalance(ctx context.Context, employeeID string, days int) (employee.Employee, error) {
	return d.debit(ctx, employeeID, employee.BalanceAnnual, days)
}

func (d *Directory) DebitAccidentalBalance(ctx context.Context, employeeID string, days int) (employee.Employee, error) {
	return d.debit(ctx, employeeID, employee.BalanceAccidental, days)
}

// CreditBalance gives back days taken by a debit whose leave lost the status race.
func (d *Directory) CreditBalance(ctx context.Context, employeeID string, balance employee.BalanceType, days int) (employee.Employee, error) {
	if days <= 0 {
		return employee.Employee{}, employee.ErrInvalidDebit
	}
	return d.EmployeeRepository.Update(ctx, employeeID, func(e *employee.Employee) error {
		switch balance {
		case employee.BalanceAnnual:
			e.AnnualBalance += days
		case employee.BalanceAccidental:
			e.AccidentalBalance += days
		default:
			return employee.ErrUnsupportedBalanceType
		}
		return nil
	})
}

func (d *Directory) debit(ctx context.Context, employeeID string, balance employee.BalanceType, days int) (employee.Employee, error) {
	if days <= 0 {
		return employee.Employee{}, employee.ErrInvalidDebit
	}
	return d.EmployeeRepository.Update(ctx, employeeID, func(e *employee.Employee) error {
		current := &e.AnnualBalance
		if balance == employee.BalanceAccidental {
			current = &e.AccidentalBalance
		}
		if *current < days {
			return employee.ErrInsufficientBalance
		}
		*current -= days
		return nil
	})
}

func sortByRank(roles []employee.Role) {
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Rank < roles[j].Rank
	})
}
