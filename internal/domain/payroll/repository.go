package payroll

import (
	"context"
	"time"
)

type DeductionRepository interface {
	Create(ctx context.Context, d Deduction) (Deduction, error)
	ListByEmployeeID(ctx context.Context, employeeID string) ([]Deduction, error)
	// ListPendingBetween returns pending deductions with from <= date <= to.
	ListPendingBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Deduction, error)
	// Finalize flips a pending deduction to finalized and links the payroll.
	// Returns ErrDeductionAlreadyFinal if another run consumed it first.
	Finalize(ctx context.Context, employeeID, id, payrollID string) (Deduction, error)
	// Release returns a deduction finalized by payrollID to pending.
	// Deductions held by any other payroll are left untouched.
	Release(ctx context.Context, employeeID, id, payrollID string) error
}

type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	ListByEmployeeID(ctx context.Context, employeeID string) ([]PayrollRecord, error)
}
