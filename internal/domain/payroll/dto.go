package payroll

import (
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DeductionKind selects which generator(s) a compute run executes.
type DeductionKind string

const (
	DeductionKindMissingHours DeductionKind = "missing_hours"
	DeductionKindMissingDays  DeductionKind = "missing_days"
	DeductionKindUnpaid       DeductionKind = "unpaid"
	DeductionKindAll          DeductionKind = "all"
)

func (k DeductionKind) IsValid() bool {
	switch k {
	case DeductionKindMissingHours, DeductionKindMissingDays, DeductionKindUnpaid, DeductionKindAll:
		return true
	}
	return false
}

// ========== DEDUCTION DTOs ==========

type ComputeDeductionsRequest struct {
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
}

func (r *ComputeDeductionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !DeductionKind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of missing_hours, missing_days, unpaid, all"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	AttendanceID *string         `json:"attendance_id,omitempty"`
	LeaveID      *string         `json:"leave_id,omitempty"`
}

// ========== PAYROLL DTOs ==========

type GeneratePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, _, ok := validator.IsValidDateRange(r.From, r.To); !ok {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "from and to must be YYYY-MM-DD with from <= to"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRecordResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	PeriodFrom       time.Time       `json:"period_from"`
	PeriodTo         time.Time       `json:"period_to"`
	PaymentDate      time.Time       `json:"payment_date"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	BonusAmount      decimal.Decimal `json:"bonus_amount"`
	DeductionsAmount decimal.Decimal `json:"deductions_amount"`
	FinalSalary      decimal.Decimal `json:"final_salary"`
	ExpectedHours    decimal.Decimal `json:"expected_hours"`
	ActualHours      decimal.Decimal `json:"actual_hours"`
	DeductionIDs     []string        `json:"deduction_ids"`
}

func ToDeductionResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		Date:         d.Date,
		Amount:       d.Amount,
		Type:         string(d.Type),
		Status:       string(d.Status),
		AttendanceID: d.AttendanceID,
		LeaveID:      d.LeaveID,
	}
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		PeriodFrom:       r.PeriodFrom,
		PeriodTo:         r.PeriodTo,
		PaymentDate:      r.PaymentDate,
		BaseSalary:       r.BaseSalary,
		BonusAmount:      r.BonusAmount,
		DeductionsAmount: r.DeductionsAmount,
		FinalSalary:      r.FinalSalary,
		ExpectedHours:    r.ExpectedHours,
		ActualHours:      r.ActualHours,
		DeductionIDs:     r.DeductionIDs,
	}
}
