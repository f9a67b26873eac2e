package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeductionType string

const (
	DeductionTypeMissingHours DeductionType = "missing_hours"
	DeductionTypeMissingDays  DeductionType = "missing_days"
	DeductionTypeUnpaid       DeductionType = "unpaid"
)

type DeductionStatus string

const (
	DeductionStatusPending   DeductionStatus = "pending"
	DeductionStatusFinalized DeductionStatus = "finalized"
)

// Deduction is created pending by the deduction engine and finalized by the
// payroll run that consumes it.
type Deduction struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Type         DeductionType   `json:"type"`
	Status       DeductionStatus `json:"status"`
	AttendanceID *string         `json:"attendance_id,omitempty"`
	LeaveID      *string         `json:"leave_id,omitempty"`
	PayrollID    *string         `json:"payroll_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PayrollRecord - generated payroll result, append-only
type PayrollRecord struct {
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
	CreatedAt        time.Time       `json:"created_at"`
}

// Rate is the salary derivation for one employee.
type Rate struct {
	EmployeeID         string          `json:"employee_id"`
	PrimaryRoleID      *string         `json:"primary_role_id,omitempty"`
	MonthlySalary      decimal.Decimal `json:"monthly_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	PercentageOvertime decimal.Decimal `json:"percentage_overtime"`
}

// Working-time assumptions behind the hourly rate.
const (
	WorkingDaysPerMonth = 22
	HoursPerDay         = 8
)
