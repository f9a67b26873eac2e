package payroll

import "context"

type DeductionService interface {
	ComputeDeductions(ctx context.Context, req ComputeDeductionsRequest) ([]DeductionResponse, error)
}

type PayrollService interface {
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, employeeID string) ([]PayrollRecordResponse, error)
}
