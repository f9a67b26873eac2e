package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	directory      *directory.Directory
	rates          *RateCalculator
	attendanceRepo attendance.AttendanceRepository
	deductionRepo  payroll.DeductionRepository
	payrollRepo    payroll.PayrollRepository
	locks          *keylock.Locker
	now            func() time.Time
}

func NewPayrollService(
	dir *directory.Directory,
	rates *RateCalculator,
	attendanceRepo attendance.AttendanceRepository,
	deductionRepo payroll.DeductionRepository,
	payrollRepo payroll.PayrollRepository,
	locks *keylock.Locker,
	now func() time.Time,
) payroll.PayrollService {
	if now == nil {
		now = time.Now
	}
	return &PayrollServiceImpl{
		directory:      dir,
		rates:          rates,
		attendanceRepo: attendanceRepo,
		deductionRepo:  deductionRepo,
		payrollRepo:    payrollRepo,
		locks:          locks,
		now:            now,
	}
}

// GeneratePayroll computes base + overtime bonus - pending deductions for the
// period and finalizes the deductions it consumed.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	from, to, _ := validator.IsValidDateRange(req.From, req.To)

	unlock := s.locks.Lock(employeeLockKey(req.EmployeeID))
	defer unlock()

	emp, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var (
		roles      []employee.Role
		records    []attendance.Attendance
		deductions []payroll.Deduction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.directory.RolesOf(gctx, emp.ID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByEmployeeBetween(gctx, emp.ID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deductions, err = s.deductionRepo.ListPendingBetween(gctx, emp.ID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list pending deductions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	rate := s.rates.Calculate(emp, roles)

	actualMinutes := 0
	for _, a := range records {
		if a.TotalDuration != nil {
			actualMinutes += *a.TotalDuration
		}
	}
	expectedHours := decimal.NewFromInt(int64(len(records))).Mul(hoursPerDay)
	actualHours := decimal.NewFromInt(int64(actualMinutes)).Div(minutesPerHour)

	overtimeHours := actualHours.Sub(expectedHours)
	if overtimeHours.IsNegative() {
		overtimeHours = decimal.Zero
	}
	bonus := rate.HourlyRate.Mul(rate.PercentageOvertime).Mul(overtimeHours).Div(hundred).Round(2)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}
	payrollID := id.String()

	consumed := make([]string, 0, len(deductions))
	deductionsTotal := decimal.Zero
	for _, d := range deductions {
		final, err := s.deductionRepo.Finalize(ctx, emp.ID, d.ID, payrollID)
		if err != nil {
			if errors.Is(err, payroll.ErrDeductionAlreadyFinal) {
				slog.Warn("Deduction consumed by another payroll run", "deduction_id", d.ID, "employee_id", emp.ID)
				continue
			}
			s.releaseDeductions(ctx, emp.ID, payrollID, consumed)
			return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to finalize deduction %s: %w", d.ID, err)
		}
		consumed = append(consumed, final.ID)
		deductionsTotal = deductionsTotal.Add(final.Amount)
	}

	base := rate.MonthlySalary.Round(2)
	record := payroll.PayrollRecord{
		ID:               payrollID,
		EmployeeID:       emp.ID,
		PeriodFrom:       from,
		PeriodTo:         to,
		PaymentDate:      s.now().UTC(),
		BaseSalary:       base,
		BonusAmount:      bonus,
		DeductionsAmount: deductionsTotal,
		FinalSalary:      base.Add(bonus).Sub(deductionsTotal),
		ExpectedHours:    expectedHours,
		ActualHours:      actualHours.Round(2),
		DeductionIDs:     consumed,
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		s.releaseDeductions(ctx, emp.ID, payrollID, consumed)
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	slog.Info("Generated payroll",
		"payroll_id", created.ID,
		"employee_id", emp.ID,
		"final_salary", created.FinalSalary.String(),
		"deductions", len(consumed),
	)
	return payroll.ToRecordResponse(created), nil
}

// releaseDeductions hands deductions finalized by an unsaved payroll back to
// pending so the next run can take them.
func (s *PayrollServiceImpl) releaseDeductions(ctx context.Context, employeeID, payrollID string, ids []string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := s.deductionRepo.Release(ctx, employeeID, id, payrollID); err != nil {
			slog.Error("Failed to release deduction", "deduction_id", id, "payroll_id", payrollID, "employee_id", employeeID, "error", err)
		}
	}
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, employeeID string) ([]payroll.PayrollRecordResponse, error) {
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := s.payrollRepo.ListByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PeriodFrom.Before(records[j].PeriodFrom)
	})

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.ToRecordResponse(r))
	}
	return responses, nil
}
