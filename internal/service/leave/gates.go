package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
)

const (
	accidentalWindow = 48 * time.Hour
	maxUnpaidDays    = 30
)

// checkGates runs the type-specific approval rules. A returned violation
// forces a rejection; an error aborts the decision.
func (s *LeaveServiceImpl) checkGates(ctx context.Context, request leave.LeaveRequest, requester employee.Employee) (*leave.GateViolation, error) {
	switch request.Type {
	case leave.LeaveTypeAnnual:
		return balanceGate(requester.AnnualBalance, request.NumDays), nil

	case leave.LeaveTypeAccidental:
		if v := balanceGate(requester.AccidentalBalance, request.NumDays); v != nil {
			return v, nil
		}
		return accidentalGate(request), nil

	case leave.LeaveTypeUnpaid:
		return s.unpaidGate(ctx, request)

	case leave.LeaveTypeCompensation:
		return s.compensationGate(ctx, request)
	}
	return nil, nil
}

func balanceGate(balance, numDays int) *leave.GateViolation {
	if balance >= numDays {
		return nil
	}
	return &leave.GateViolation{
		Gate:    leave.GateBalance,
		Message: fmt.Sprintf("balance of %d days does not cover %d requested", balance, numDays),
	}
}

func accidentalGate(request leave.LeaveRequest) *leave.GateViolation {
	if request.NumDays != 1 {
		return &leave.GateViolation{
			Gate:    leave.GateAccidentalShape,
			Message: "accidental leave must span exactly one day",
		}
	}
	gap := request.StartDate.Sub(request.DateOfRequest)
	if gap < 0 {
		gap = -gap
	}
	if gap > accidentalWindow {
		return &leave.GateViolation{
			Gate:    leave.GateAccidentalShape,
			Message: "accidental leave must start within 48 hours of the request",
		}
	}
	return nil
}

func (s *LeaveServiceImpl) unpaidGate(ctx context.Context, request leave.LeaveRequest) (*leave.GateViolation, error) {
	if request.NumDays > maxUnpaidDays {
		return &leave.GateViolation{
			Gate:    leave.GateUnpaidCap,
			Message: fmt.Sprintf("unpaid leave is limited to %d days", maxUnpaidDays),
		}, nil
	}

	others, err := s.LeaveRequestRepository.ListByEmployeeID(ctx, request.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	for _, other := range others {
		if other.ID == request.ID || other.Type != leave.LeaveTypeUnpaid {
			continue
		}
		if other.FinalApprovalStatus == leave.ApprovalStatusApproved && other.StartDate.Year() == request.StartDate.Year() {
			return &leave.GateViolation{
				Gate:    leave.GateUnpaidYearly,
				Message: fmt.Sprintf("an unpaid leave was already approved in %d", request.StartDate.Year()),
			}, nil
		}
	}
	return nil, nil
}

func (s *LeaveServiceImpl) compensationGate(ctx context.Context, request leave.LeaveRequest) (*leave.GateViolation, error) {
	payload, err := s.PayloadRepository.GetByLeaveID(ctx, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave payload: %w", err)
	}
	if payload.OriginalWorkday == nil {
		return &leave.GateViolation{
			Gate:    leave.GateWorkHours,
			Message: "no original workday recorded",
		}, nil
	}
	workday := *payload.OriginalWorkday

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, request.EmployeeID, workday)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if err != nil || record.TotalDuration == nil || *record.TotalDuration < attendance.FullDayMinutes {
		return &leave.GateViolation{
			Gate:    leave.GateWorkHours,
			Message: fmt.Sprintf("no full working day recorded on %s", workday.Format("2006-01-02")),
		}, nil
	}

	if request.StartDate.Year() != workday.Year() || request.StartDate.Month() != workday.Month() {
		return &leave.GateViolation{
			Gate:    leave.GateSameMonth,
			Message: "compensation must be taken in the month of the original workday",
		}, nil
	}

	if payload.ReplacementEmployeeID == nil {
		return nil, nil
	}
	replacement, err := s.directory.GetEmployee(ctx, *payload.ReplacementEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get replacement employee: %w", err)
	}
	if !replacement.HasDayOff(request.StartDate.Weekday()) {
		return &leave.GateViolation{
			Gate:    leave.GateReplacementDay,
			Message: fmt.Sprintf("replacement's day off is not %s", request.StartDate.Weekday()),
		}, nil
	}
	return nil, nil
}
