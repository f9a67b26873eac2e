package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
	"github.com/shopspring/decimal"
)

type DeductionServiceImpl struct {
	directory      *directory.Directory
	rates          *RateCalculator
	attendanceRepo attendance.AttendanceRepository
	deductionRepo  payroll.DeductionRepository
	leaveRepo      leave.LeaveRequestRepository
	locks          *keylock.Locker
	now            func() time.Time
}

func NewDeductionService(
	dir *directory.Directory,
	rates *RateCalculator,
	attendanceRepo attendance.AttendanceRepository,
	deductionRepo payroll.DeductionRepository,
	leaveRepo leave.LeaveRequestRepository,
	locks *keylock.Locker,
	now func() time.Time,
) *DeductionServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &DeductionServiceImpl{
		directory:      dir,
		rates:          rates,
		attendanceRepo: attendanceRepo,
		deductionRepo:  deductionRepo,
		leaveRepo:      leaveRepo,
		locks:          locks,
		now:            now,
	}
}

// ComputeDeductions creates pending deductions for the current calendar month.
// Repeated calls for the same month create new records each time.
func (s *DeductionServiceImpl) ComputeDeductions(ctx context.Context, req payroll.ComputeDeductionsRequest) ([]payroll.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(employeeLockKey(req.EmployeeID))
	defer unlock()

	emp, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	roles, err := s.directory.RolesOf(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	rate := s.rates.Calculate(emp, roles)

	monthStart, monthEnd := monthBounds(s.now())
	records, err := s.attendanceRepo.ListByEmployeeBetween(ctx, emp.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	var drafts []payroll.Deduction
	kind := payroll.DeductionKind(req.Kind)

	if kind == payroll.DeductionKindMissingHours || kind == payroll.DeductionKindAll {
		if d, ok := missingHoursDeduction(emp, rate, records); ok {
			drafts = append(drafts, d)
		}
	}
	if kind == payroll.DeductionKindMissingDays || kind == payroll.DeductionKindAll {
		drafts = append(drafts, missingDaysDeductions(emp, rate, records)...)
	}
	if kind == payroll.DeductionKindUnpaid || kind == payroll.DeductionKindAll {
		d, ok, err := s.unpaidLeaveDeduction(ctx, emp, rate, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		if ok {
			drafts = append(drafts, d)
		}
	}

	responses := make([]payroll.DeductionResponse, 0, len(drafts))
	for _, draft := range drafts {
		created, err := s.deductionRepo.Create(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s deduction: %w", draft.Type, err)
		}
		responses = append(responses, payroll.ToDeductionResponse(created))
	}

	slog.Info("Computed deductions",
		"employee_id", emp.ID,
		"kind", kind,
		"month", monthStart.Format("2006-01"),
		"count", len(responses),
	)
	return responses, nil
}

// RunMonthEndSweep computes every deduction kind for all active employees,
// but only on the last day of the month.
func (s *DeductionServiceImpl) RunMonthEndSweep(ctx context.Context) error {
	today := s.now()
	if today.AddDate(0, 0, 1).Month() == today.Month() {
		slog.Debug("Skipping deduction sweep, not month end", "date", today.Format("2006-01-02"))
		return nil
	}

	employees, err := s.directory.EmployeeRepository.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	processed := 0
	for _, emp := range employees {
		if emp.EmploymentStatus == employee.EmploymentStatusResigned {
			continue
		}
		req := payroll.ComputeDeductionsRequest{EmployeeID: emp.ID, Kind: string(payroll.DeductionKindAll)}
		if _, err := s.ComputeDeductions(ctx, req); err != nil {
			slog.Error("Deduction sweep failed for employee", "employee_id", emp.ID, "error", err)
			continue
		}
		processed++
	}
	slog.Info("Deduction sweep finished", "employees", processed)
	return nil
}

// missingHoursDeduction folds every short day into a single record anchored
// to the first short day. Any record with a duration counts, whatever its status.
func missingHoursDeduction(emp employee.Employee, rate payroll.Rate, records []attendance.Attendance) (payroll.Deduction, bool) {
	var (
		anchor       *attendance.Attendance
		totalMissing int
	)
	for i := range records {
		missing, ok := records[i].MissingMinutes()
		if !ok {
			continue
		}
		if anchor == nil {
			anchor = &records[i]
		}
		totalMissing += missing
	}
	if anchor == nil {
		return payroll.Deduction{}, false
	}

	amount := decimal.NewFromInt(int64(totalMissing)).Div(minutesPerHour).Mul(rate.HourlyRate).Round(2)
	attendanceID := anchor.ID
	return payroll.Deduction{
		EmployeeID:   emp.ID,
		Date:         anchor.Date,
		Amount:       amount,
		Type:         payroll.DeductionTypeMissingHours,
		Status:       payroll.DeductionStatusPending,
		AttendanceID: &attendanceID,
	}, true
}

func missingDaysDeductions(emp employee.Employee, rate payroll.Rate, records []attendance.Attendance) []payroll.Deduction {
	dayAmount := rate.HourlyRate.Mul(hoursPerDay).Round(2)

	out := make([]payroll.Deduction, 0)
	for _, a := range records {
		if a.Status != attendance.StatusAbsent {
			continue
		}
		attendanceID := a.ID
		out = append(out, payroll.Deduction{
			EmployeeID:   emp.ID,
			Date:         a.Date,
			Amount:       dayAmount,
			Type:         payroll.DeductionTypeMissingDays,
			Status:       payroll.DeductionStatusPending,
			AttendanceID: &attendanceID,
		})
	}
	return out
}

// unpaidLeaveDeduction charges the first approved unpaid leave overlapping the
// month for the days that fall inside it.
func (s *DeductionServiceImpl) unpaidLeaveDeduction(ctx context.Context, emp employee.Employee, rate payroll.Rate, monthStart, monthEnd time.Time) (payroll.Deduction, bool, error) {
	requests, err := s.leaveRepo.ListByEmployeeID(ctx, emp.ID)
	if err != nil {
		return payroll.Deduction{}, false, fmt.Errorf("failed to list leave requests: %w", err)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].StartDate.Before(requests[j].StartDate)
	})

	for _, request := range requests {
		if request.Type != leave.LeaveTypeUnpaid || request.FinalApprovalStatus != leave.ApprovalStatusApproved {
			continue
		}
		if request.EndDate.Before(monthStart) || request.StartDate.After(monthEnd) {
			continue
		}

		from := maxTime(request.StartDate, monthStart)
		to := minTime(request.EndDate, monthEnd)
		days := decimal.NewFromInt(int64(leave.InclusiveDays(from, to)))
		leaveID := request.ID
		return payroll.Deduction{
			EmployeeID: emp.ID,
			Date:       from,
			Amount:     rate.HourlyRate.Mul(hoursPerDay).Mul(days).Round(2),
			Type:       payroll.DeductionTypeUnpaid,
			Status:     payroll.DeductionStatusPending,
			LeaveID:    &leaveID,
		}, true, nil
	}
	return payroll.Deduction{}, false, nil
}

func employeeLockKey(employeeID string) string {
	return "employee:" + employeeID
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
