package payroll

import (
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	hoursPerDay    = decimal.NewFromInt(payroll.HoursPerDay)
	hoursPerMonth  = decimal.NewFromInt(payroll.WorkingDaysPerMonth * payroll.HoursPerDay)
	minutesPerHour = decimal.NewFromInt(60)
)

type RateCalculator struct {
}

func NewRateCalculator() *RateCalculator {
	return &RateCalculator{}
}

// Calculate derives salary figures from the most senior role (lowest rank).
// An employee without roles earns nothing.
func (c *RateCalculator) Calculate(emp employee.Employee, roles []employee.Role) payroll.Rate {
	rate := payroll.Rate{
		EmployeeID:         emp.ID,
		MonthlySalary:      decimal.Zero,
		HourlyRate:         decimal.Zero,
		PercentageOvertime: decimal.Zero,
	}
	if len(roles) == 0 {
		return rate
	}

	primary := roles[0]
	for _, r := range roles[1:] {
		if r.Rank < primary.Rank {
			primary = r
		}
	}

	yoe := decimal.NewFromInt(int64(emp.YearsOfExperience))
	experienceBonus := primary.PercentageYOE.Div(hundred).Mul(yoe).Mul(primary.BaseSalary)

	rate.PrimaryRoleID = &primary.ID
	rate.MonthlySalary = primary.BaseSalary.Add(experienceBonus)
	rate.HourlyRate = rate.MonthlySalary.Div(hoursPerMonth)
	rate.PercentageOvertime = primary.PercentageOvertime
	return rate
}
