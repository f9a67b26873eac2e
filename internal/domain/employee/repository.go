package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Save(ctx context.Context, e Employee) error
	// Update applies fn to the stored employee atomically.
	Update(ctx context.Context, id string, fn func(e *Employee) error) (Employee, error)
}

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (Role, error)
	List(ctx context.Context) ([]Role, error)
	Save(ctx context.Context, r Role) error
}

type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Save(ctx context.Context, d Department) error
}

type RoleAssignmentRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]RoleAssignment, error)
	List(ctx context.Context) ([]RoleAssignment, error)
	Assign(ctx context.Context, a RoleAssignment) error
}
