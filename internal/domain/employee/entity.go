package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                string           `json:"id"`
	FullName          string           `json:"full_name"`
	DepartmentID      string           `json:"department_id"`
	ContractType      ContractType     `json:"contract_type"`
	EmploymentStatus  EmploymentStatus `json:"employment_status"`
	AnnualBalance     int              `json:"annual_balance"`
	AccidentalBalance int              `json:"accidental_balance"`
	OfficialDayOff    string           `json:"official_day_off"` // e.g. "Friday"
	YearsOfExperience int              `json:"years_of_experience"`
	HireDate          *time.Time       `json:"hire_date,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// HasDayOff reports whether weekday is the employee's official weekly day off.
func (e Employee) HasDayOff(weekday time.Weekday) bool {
	return strings.EqualFold(strings.TrimSpace(e.OfficialDayOff), weekday.String())
}

// CanApprove reports whether the employment status allows acting as an approver.
func (e Employee) CanApprove() bool {
	return e.EmploymentStatus == EmploymentStatusActive || e.EmploymentStatus == EmploymentStatusNoticePeriod
}

type ContractType string

const (
	ContractTypeFullTime ContractType = "full_time"
	ContractTypePartTime ContractType = "part_time"
)

type EmploymentStatus string

const (
	EmploymentStatusActive       EmploymentStatus = "active"
	EmploymentStatusOnLeave      EmploymentStatus = "onleave"
	EmploymentStatusResigned     EmploymentStatus = "resigned"
	EmploymentStatusNoticePeriod EmploymentStatus = "notice_period"
)

// Role is immutable reference data. Lower Rank means more senior.
type Role struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Rank                     int             `json:"rank"`
	BaseSalary               decimal.Decimal `json:"base_salary"`
	PercentageYOE            decimal.Decimal `json:"percentage_yoe"`
	PercentageOvertime       decimal.Decimal `json:"percentage_overtime"`
	DefaultAnnualBalance     int             `json:"default_annual_balance"`
	DefaultAccidentalBalance int             `json:"default_accidental_balance"`
}

// Well-known role names used by approval routing.
const (
	RolePresident              = "President"
	RoleDean                   = "Dean"
	RoleViceDean               = "Vice Dean"
	RoleMedicalDoctor          = "Medical Doctor"
	RoleHRPrefix               = "HR"
	RoleHRRepresentativePrefix = "HR_Representative"

	// UpperBoardMaxRank is the most junior rank still counted as upper board.
	UpperBoardMaxRank = 4
)

// HRRepresentativeRole returns the HR representative role name of a department.
func HRRepresentativeRole(departmentName string) string {
	return RoleHRRepresentativePrefix + "_" + departmentName
}

func (r Role) IsHR() bool {
	return strings.HasPrefix(r.Name, RoleHRPrefix)
}

func (r Role) IsHRRepresentative() bool {
	return strings.HasPrefix(r.Name, RoleHRRepresentativePrefix)
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoleAssignment struct {
	EmployeeID string `json:"employee_id"`
	RoleID     string `json:"role_id"`
}

// BalanceType names one of the day balances carried on Employee.
type BalanceType string

const (
	BalanceAnnual     BalanceType = "annual"
	BalanceAccidental BalanceType = "accidental"
)
